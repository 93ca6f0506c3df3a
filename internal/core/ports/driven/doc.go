// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// and plugins implement them.
//
// # Pipeline Interfaces
//
//   - Reader: Produces documents from a source (GitHub)
//   - Chunker: Splits documents into chunks
//   - Embedder: Attaches vectors to chunks and hands documents to an importer
//   - EncoderModel: Tokenizer plus transformer forward pass used by embedders
//
// # Infrastructure Interfaces
//
//   - DocumentImporter: The "import documents" operation embedders call
//   - DocumentStore: Document persistence and vector search (SQLite, memory)
//   - TokenProvider: Supplies API tokens to readers
//   - SettingsStore: Application configuration (TOML)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, reader or embedder package
package driven
