package producer

import "errors"

var (
	// ErrProducerClosed producer已關閉
	ErrProducerClosed = errors.New("producer is closed")
)
