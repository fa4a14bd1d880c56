package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/strands/asset"
	"github.com/achilleasa/strands/asset/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or http(s) URL. Text strand files (.strands)
// are parsed and compiled while compiled scenes (.zip) are loaded as-is.
func ReadScene(filename string) (*scene.Scene, error) {
	var reader Reader
	switch {
	case strings.HasSuffix(filename, ".strands"):
		reader = newStrandReader()
	case strings.HasSuffix(filename, ".zip"):
		reader = newZipSceneReader()
	default:
		return nil, fmt.Errorf("readScene: unsupported file format")
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
