// Package onnx runs a BERT-style sentence encoder through ONNX Runtime.
//
// A model directory holds model.onnx and the Hugging Face tokenizer.json.
// [Check] verifies the runtime shared library and both files are present
// without loading anything; [Open] loads them and returns a [Model] the
// caller must Close. The ONNX Runtime environment is process-wide, so only
// one Model should be open at a time.
package onnx
