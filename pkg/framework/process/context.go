// Package process provides the per-block audio processing context.
package process

import (
	"github.com/nla/simplepanner/pkg/framework/param"
)

// ParameterChange is a normalized parameter value delivered by the host for
// the current block. SampleOffset is where in the block the change lands;
// the value takes effect from the block's first sample regardless.
type ParameterChange struct {
	ParamID      uint32
	Value        float64
	SampleOffset int32
}

// Context carries one block's channels to a processor. It holds no per-block
// allocations.
type Context struct {
	Input      [][]float32
	Output     [][]float32
	SampleRate float64

	params *param.Registry
	err    error
}

// NewContext creates a context that applies parameter changes to params.
func NewContext(params *param.Registry) *Context {
	return &Context{params: params}
}

// Begin binds the block's buffers and clears the previous block's error.
func (c *Context) Begin(input, output [][]float32) {
	c.Input = input
	c.Output = output
	c.err = nil
}

// NumInputChannels returns the number of input channels
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// SetParameterChanges applies the block's changes to the registry in order,
// so the last change for an ID wins. Unknown IDs are ignored.
func (c *Context) SetParameterChanges(changes []ParameterChange) {
	if c.params == nil {
		return
	}
	for _, ch := range changes {
		c.params.SetValue(ch.ParamID, ch.Value)
	}
}

// SetError records a processing failure for the block. The first error wins.
func (c *Context) SetError(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Err returns the error recorded for the current block, if any.
func (c *Context) Err() error {
	return c.err
}
