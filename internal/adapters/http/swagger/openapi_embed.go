package swagger

import _ "embed"

// OpenAPI holds the engine's API specification, embedded so /api-docs
// serves it without any on-disk assets.
//
//go:embed openapi.yaml
var OpenAPI []byte
