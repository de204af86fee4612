package scorm

import "errors"

var (
	ErrUnsupportedVersion = errors.New("unsupported SCORM version")
	ErrEmptyTitle         = errors.New("course title is empty")
	ErrNoTopics           = errors.New("course has no topics")
	ErrUnsafePath         = errors.New("unsafe package path")
)
