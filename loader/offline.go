package loader

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	ld "github.com/piprate/json-gold/ld"
)

// OfflineDocumentLoader is an implementation of ld.DocumentLoader that
// never touches the network. Remote contexts resolve only when they were
// preloaded or mapped to a local file; file: URIs and bare paths are read
// from disk.
type OfflineDocumentLoader struct {
	mu        sync.Mutex
	documents map[string]interface{}
	files     map[string]string
}

// NewOfflineDocumentLoader creates a new instance of OfflineDocumentLoader
func NewOfflineDocumentLoader() *OfflineDocumentLoader {
	return &OfflineDocumentLoader{
		documents: map[string]interface{}{},
		files:     map[string]string{},
	}
}

// AddDocument preloads a decoded JSON-LD document for the given URL
func (dl *OfflineDocumentLoader) AddDocument(u string, document interface{}) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.documents[u] = document
}

// AddFile maps a URL to a local file, read lazily on first use
func (dl *OfflineDocumentLoader) AddFile(u string, path string) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.files[u] = path
}

// LoadDocument returns a RemoteDocument containing the contents of the
// JSON-LD resource from the given URL.
func (dl *OfflineDocumentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	dl.mu.Lock()
	document, preloaded := dl.documents[u]
	path, mapped := dl.files[u]
	dl.mu.Unlock()

	if preloaded {
		return &ld.RemoteDocument{DocumentURL: u, Document: document}, nil
	}

	if !mapped {
		parsedURL, err := url.Parse(u)
		if err != nil {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
		switch parsedURL.Scheme {
		case "file":
			path = parsedURL.Path
		case "":
			path = u
		default:
			err := fmt.Sprintf("offline loader cannot fetch %s: unsupported URI scheme %q", u, parsedURL.Scheme)
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
	}

	document, err := readDocument(path)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}

	dl.AddDocument(u, document)
	return &ld.RemoteDocument{DocumentURL: u, Document: document}, nil
}

func readDocument(path string) (interface{}, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ld.DocumentFromReader(f)
}
