package reveal

// Package reveal implements the staged quality ramp shown while a
// full-resolution asset loads. The ramp is cosmetic: a fixed sequence of
// percent/blur stages ticks on a timer regardless of actual network
// progress, and the real load event cuts it short by jumping straight to
// the final stage. Each load attempt gets its own single-use Sequence.
