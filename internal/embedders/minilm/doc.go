// Package minilm implements an embedder for the sentence-transformers
// all-MiniLM-L6-v2 model.
//
// Each chunk is tokenized into word pieces, split into batches that fit the
// model's input length, encoded batch by batch and mean-pooled. The chunk
// vector is the element-wise mean of the batch vectors. The model itself is
// supplied as a [driven.EncoderModel], normally the ONNX adapter.
package minilm
