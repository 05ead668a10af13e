package game

type Flags uint8

const (
	FlagRoomOp Flags = 1 << iota
	FlagBall
	FlagPlayer
	FlagShooting
)

const (
	kindFlags = FlagBall | FlagPlayer

	// ClientFlags are the only bits a connection may change.
	ClientFlags = FlagShooting
)

func (f Flags) Has(o Flags) bool { return f&o == o }

// Kind returns the entity kind named by the kind bits.
func (f Flags) Kind() (Kind, error) {
	switch f & kindFlags {
	case FlagBall:
		return KindBall, nil
	case FlagPlayer:
		return KindPlayer, nil
	case kindFlags:
		return 0, ErrConflictingKind
	default:
		return 0, ErrMissingKind
	}
}

type Kind uint8

const (
	KindPlayer Kind = iota
	KindBall
)

func (k Kind) Flag() Flags {
	if k == KindBall {
		return FlagBall
	}
	return FlagPlayer
}

func (k Kind) String() string {
	if k == KindBall {
		return "ball"
	}
	return "player"
}
