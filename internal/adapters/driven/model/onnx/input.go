package onnx

// encoderInput holds the int64 tensors fed to the encoder.
type encoderInput struct {
	ids     []int64
	mask    []int64
	typeIDs []int64
}

// newEncoderInput converts tokenizer output, filling a missing mask with ones
// and missing type ids with zeros.
func newEncoderInput(ids, mask, typeIDs []int) encoderInput {
	in := encoderInput{
		ids:     make([]int64, len(ids)),
		mask:    make([]int64, len(ids)),
		typeIDs: make([]int64, len(ids)),
	}
	for i, id := range ids {
		in.ids[i] = int64(id)
		in.mask[i] = 1
		if len(mask) == len(ids) {
			in.mask[i] = int64(mask[i])
		}
		if len(typeIDs) == len(ids) {
			in.typeIDs[i] = int64(typeIDs[i])
		}
	}
	return in
}

// truncate shortens the input to maxLength ids, keeping the final [SEP].
func truncate(in encoderInput, maxLength int) encoderInput {
	n := len(in.ids)
	if maxLength < 2 || n <= maxLength {
		return in
	}
	cut := func(s []int64) []int64 {
		out := make([]int64, 0, maxLength)
		out = append(out, s[:maxLength-1]...)
		return append(out, s[n-1])
	}
	return encoderInput{ids: cut(in.ids), mask: cut(in.mask), typeIDs: cut(in.typeIDs)}
}
