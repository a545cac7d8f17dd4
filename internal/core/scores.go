package core

// BestScoreStore persists a single named integer per key, such as the best
// score reached on a board preset. Missing keys read as 0.
type BestScoreStore interface {
	BestScore(key string) (int, error)
	SetBestScore(key string, score int) error
}
