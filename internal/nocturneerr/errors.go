// Package nocturneerr classifies the error kinds the engine, output, and
// kernel surface to frontends and to the persistence layer.
package nocturneerr

// Kind identifies the broad category of an error without requiring callers
// to type-switch on concrete error values. It travels alongside a wrapped
// error produced with fmt.Errorf("...: %w", err).
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidOutputDevice
	KindOpenStream
	KindPlayStream
	KindStreamClosed
	KindNonF32
	KindResampler
	KindDecodeError
	KindPathError
	KindSeekError
	KindSaveError
	KindLoadError
	KindVersionError
	KindChannelError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidOutputDevice:
		return "InvalidOutputDevice"
	case KindOpenStream:
		return "OpenStream"
	case KindPlayStream:
		return "PlayStream"
	case KindStreamClosed:
		return "StreamClosed"
	case KindNonF32:
		return "NonF32"
	case KindResampler:
		return "Resampler"
	case KindDecodeError:
		return "DecodeError"
	case KindPathError:
		return "PathError"
	case KindSeekError:
		return "SeekError"
	case KindSaveError:
		return "SaveError"
	case KindLoadError:
		return "LoadError"
	case KindVersionError:
		return "VersionError"
	case KindChannelError:
		return "ChannelError"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying error with a Kind so frontends can branch on
// category (e.g. "pause playback and surface to the user" vs "log and
// continue") without parsing error strings.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with the given Kind. Returns nil if err is nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}
