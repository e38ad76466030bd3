package library

import (
	_ "embed"

	"github.com/idavillc/prompt-builder/internal/domain/id"
)

//go:embed starter.json
var starterKit []byte

// Starter parses the bundled starter-kit document. It goes through the same
// pipeline as any user import, so its ids are re-issued per session.
func Starter(gen id.Generator) (*Document, error) {
	return Parse(starterKit, gen)
}
