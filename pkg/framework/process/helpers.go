package process

// PassThrough copies each input channel to the output channel with the same
// index. Channels that already share backing storage are left alone.
func (c *Context) PassThrough() {
	for ch := 0; ch < c.GetNumChannels(); ch++ {
		input, output := c.Input[ch], c.Output[ch]
		if len(input) > 0 && len(output) > 0 && &input[0] == &output[0] {
			continue
		}
		copy(output, input)
	}
}

// ClearUnpairedOutputs zeros output channels that have no matching input, so
// they never carry stale data from an earlier block.
func (c *Context) ClearUnpairedOutputs() {
	for ch := c.NumInputChannels(); ch < c.NumOutputChannels(); ch++ {
		clear(c.Output[ch])
	}
}

// GetNumChannels returns the minimum of input and output channels
func (c *Context) GetNumChannels() int {
	return min(c.NumInputChannels(), c.NumOutputChannels())
}

// GetNumStereoChannels returns the number of channels capped at 2
func (c *Context) GetNumStereoChannels() int {
	return min(c.GetNumChannels(), 2)
}
