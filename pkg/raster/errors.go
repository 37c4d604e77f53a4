package raster

import "fmt"

// A DecodeError means an input file couldn't be read, or isn't an image
// format (or bit depth) we handle.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError)Error() string { return fmt.Sprintf("decode '%s': %v", e.Path, e.Err) }
func (e *DecodeError)Unwrap() error { return e.Err }

// An EncodeError means the output couldn't be written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError)Error() string { return fmt.Sprintf("encode '%s': %v", e.Path, e.Err) }
func (e *EncodeError)Unwrap() error { return e.Err }
