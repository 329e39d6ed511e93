package protocol

const (
	// MaxChunkSize bounds the payload of a single MediaChunk message.
	MaxChunkSize = 64 * 1024
)

type MessageType uint16

const (
	MsgPing        MessageType = 0x0001
	MsgPong        MessageType = 0x0002
	MsgAppListReq  MessageType = 0x0010
	MsgAppListRes  MessageType = 0x0011
	MsgDescribeReq MessageType = 0x0020
	MsgDescribeRes MessageType = 0x0021
	MsgApproveReq  MessageType = 0x0030
	MsgMediaOpen   MessageType = 0x0040
	MsgMediaFile   MessageType = 0x0041
	MsgMediaChunk  MessageType = 0x0042
	MsgAck         MessageType = 0x00F0
	MsgError       MessageType = 0x00FF
)

func (t MessageType) String() string {
	switch t {
	case MsgPing:
		return "PING"
	case MsgPong:
		return "PONG"
	case MsgAppListReq:
		return "APP_LIST_REQ"
	case MsgAppListRes:
		return "APP_LIST_RES"
	case MsgDescribeReq:
		return "DESCRIBE_REQ"
	case MsgDescribeRes:
		return "DESCRIBE_RES"
	case MsgApproveReq:
		return "APPROVE_REQ"
	case MsgMediaOpen:
		return "MEDIA_OPEN"
	case MsgMediaFile:
		return "MEDIA_FILE"
	case MsgMediaChunk:
		return "MEDIA_CHUNK"
	case MsgAck:
		return "ACK"
	case MsgError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type ErrorCode uint16

const (
	ErrUnknown          ErrorCode = 0x0000
	ErrInvalidMsg       ErrorCode = 0x0001
	ErrPeerNotFound     ErrorCode = 0x0002
	ErrPermissionDenied ErrorCode = 0x0003
	ErrInternal         ErrorCode = 0x00FF
)

func (e ErrorCode) String() string {
	switch e {
	case ErrInvalidMsg:
		return "INVALID_MESSAGE"
	case ErrPeerNotFound:
		return "PEER_NOT_FOUND"
	case ErrPermissionDenied:
		return "PERMISSION_DENIED"
	case ErrInternal:
		return "INTERNAL_ERROR"
	case ErrUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}
