package protocol

import (
	"encoding/gob"
	"io"
)

func init() {
	gob.Register(&Ping{})
	gob.Register(&Pong{})
	gob.Register(&AppListReq{})
	gob.Register(&AppListRes{})
	gob.Register(&DescribeReq{})
	gob.Register(&DescribeRes{})
	gob.Register(&ApproveReq{})
	gob.Register(&MediaOpen{})
	gob.Register(&MediaFile{})
	gob.Register(&MediaChunk{})
	gob.Register(&Ack{})
	gob.Register(&Error{})
}

// Codec frames messages on a single stream. It keeps one encoder and
// one decoder for the stream's lifetime; a fresh gob decoder per
// message would buffer past the message boundary and lose data.
type Codec struct {
	enc *gob.Encoder
	dec *gob.Decoder
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		enc: gob.NewEncoder(rw),
		dec: gob.NewDecoder(rw),
	}
}

func (c *Codec) Encode(msg Message) error {
	return c.enc.Encode(&msg)
}

func (c *Codec) Decode() (Message, error) {
	var msg Message
	if err := c.dec.Decode(&msg); err != nil {
		return nil, err
	}
	return msg, nil
}
