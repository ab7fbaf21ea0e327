//go:build production

package editor

func (e *Editor) assert(err error) {
	if err == nil {
		return
	}
	e.log.WithError(err).Error("editing rule violated a document precondition")
}
