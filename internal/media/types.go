package media

type Type string

const (
	TypeEye   Type = "eye"
	TypeMouth Type = "mouth"
	TypeIcon  Type = "icon"
)

func (t Type) Size() (w int16, h int16) {
	switch t {
	case TypeEye:
		return 16, 16
	case TypeMouth:
		return 24, 8
	case TypeIcon:
		return 16, 16
	default:
		return 0, 0
	}
}
