package protocol

type Message interface {
	Type() MessageType
}

type Ping struct{}

func (Ping) Type() MessageType { return MsgPing }

type Pong struct{}

func (Pong) Type() MessageType { return MsgPong }

// ProcessState reports whether an installed app currently has a
// running process on the target.
type ProcessState uint16

const (
	StateUnknown ProcessState = iota
	StateNotRunning
	StateRunning
)

func (s ProcessState) String() string {
	switch s {
	case StateNotRunning:
		return "not_running"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

type AppInfo struct {
	BundleID      string
	Name          string
	Architectures []string
	InstallType   string
	ProcessState  ProcessState
	Debuggable    bool
}

type AppListReq struct{}

func (AppListReq) Type() MessageType { return MsgAppListReq }

type AppListRes struct {
	Apps []AppInfo
}

func (AppListRes) Type() MessageType { return MsgAppListRes }

type Point struct {
	X int32
	Y int32
}

// DescribeReq queries accessibility info, optionally scoped to a point.
type DescribeReq struct {
	Point *Point
}

func (DescribeReq) Type() MessageType { return MsgDescribeReq }

type DescribeRes struct {
	JSON string
}

func (DescribeRes) Type() MessageType { return MsgDescribeRes }

// Permission is one grantable capability on a target.
type Permission uint16

const (
	PermPhotos Permission = iota
	PermCamera
	PermContacts
)

func (p Permission) String() string {
	switch p {
	case PermPhotos:
		return "photos"
	case PermCamera:
		return "camera"
	case PermContacts:
		return "contacts"
	default:
		return "unknown"
	}
}

type ApproveReq struct {
	BundleID    string
	Permissions []Permission
}

func (ApproveReq) Type() MessageType { return MsgApproveReq }

// MediaOpen starts a media upload stream. The items that follow are
// either all MediaFile or all MediaChunk messages, never a mix.
type MediaOpen struct{}

func (MediaOpen) Type() MessageType { return MsgMediaOpen }

// MediaFile carries the literal path of one media item; used when the
// companion runs on the same machine and can read the file itself.
type MediaFile struct {
	Path string
}

func (MediaFile) Type() MessageType { return MsgMediaFile }

// MediaChunk carries one archive fragment for a remote companion.
type MediaChunk struct {
	Seq  uint32
	Data []byte
}

func (MediaChunk) Type() MessageType { return MsgMediaChunk }

type Ack struct{}

func (Ack) Type() MessageType { return MsgAck }

type Error struct {
	Code    ErrorCode
	Message string
}

func (Error) Type() MessageType { return MsgError }
