package filesystem

import "github.com/spf13/afero"

// AferoOpener adapts an afero.Fs to the FileOpener interface, letting tests
// substitute an in-memory filesystem for the real share-mode-aware openers
// without touching the production code path.
type AferoOpener struct {
	Fs afero.Fs
}

// NewAferoOpener wraps fs as a FileOpener.
func NewAferoOpener(fs afero.Fs) FileOpener {
	return AferoOpener{Fs: fs}
}

func (o AferoOpener) Open(name string) (ReadSeekCloser, error) {
	return o.Fs.Open(name)
}
