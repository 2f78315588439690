package model

import "errors"

// 这些错误都是致命的：不重试，直接退出
var (
	ErrSourceUnavailable = errors.New("cannot open monitor")
	ErrFilterRejected    = errors.New("cannot filter")
	ErrEnableFailed      = errors.New("cannot start receiving on monitor")
	ErrReceiveFailed     = errors.New("cannot fetch event data from monitor")
	ErrOutputFailed      = errors.New("cannot write output")
)
