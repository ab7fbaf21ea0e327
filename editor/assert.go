//go:build !production

package editor

// assert fails fast on broken editing rules outside production builds.
func (e *Editor) assert(err error) {
	if err == nil {
		return
	}
	e.log.WithError(err).Error("editing rule violated a document precondition")
	panic(err)
}
