// Package github implements a reader that downloads text documents from a
// GitHub repository.
//
// A load path has the form {owner}/{repo}/{optional/sub/folder}. For each path
// the reader lists the repository tree with the recursive Trees API, keeps the
// blobs that lie under the folder and carry an allowed extension (.md, .mdx,
// .txt and .json by default), then downloads each one through the Contents API.
//
// # Documents
//
// Plain files become a [domain.Document] whose name and path are the tree
// path and whose link is the file's html_url. Files ending in .json are
// parsed as structured document records instead, so pre-chunked documents
// can be published to a repository and loaded as-is.
//
// # Authentication
//
// A bearer token is read from the GITHUB_TOKEN environment variable (the
// name is configurable). Without it the reader logs a warning and issues
// unauthenticated requests, which GitHub limits to 60 per hour.
//
// # Failure Policy
//
// Loading is fail-fast. Any non-2xx response, decode failure or malformed
// JSON record aborts the whole load and no documents are returned. There are
// no retries.
//
// # Rate Limiting
//
// The client reads X-RateLimit-* headers from every response and, once the
// remaining quota drops below a small reserve, waits for the reset before the
// next request. An optional token bucket throttles requests proactively when
// requests_per_second is configured.
package github
