package face

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"time"

	"github.com/ndnfw/planes/fw/defn"
	enc "github.com/ndnfw/planes/std/encoding"
)

// wireInterest and wireData are the plain, gob-friendly shapes Interest and
// Data packets are carried in over a byte-stream transport. Name algebra in
// this module has no wire encoding of its own (that's an explicit
// non-goal), so a transport-level frame format still has to exist
// somewhere for TCPFace/WSFace to have anything to read and write; gob is
// already used for this module's persisted Content Store records
// (cs_store_badger.go), so the transport frame reuses it rather than
// reaching for a third format.
type wireInterest struct {
	Name           []string
	SupportingName []string
	Nonce          uint32
	HasNonce       bool
}

type wireData struct {
	Name           []string
	SupportingName []string
	FreshnessNanos int64
	HasFreshness   bool
	Content        []byte
}

type frameKind uint8

const (
	frameInterest frameKind = iota
	frameData
)

type frame struct {
	Kind     frameKind
	Interest *wireInterest
	Data     *wireData
}

func namesToStrings(n enc.Name) []string {
	if len(n) == 0 {
		return nil
	}
	ret := make([]string, len(n))
	for i, c := range n {
		ret[i] = string(c)
	}
	return ret
}

func stringsToName(ss []string) enc.Name {
	if len(ss) == 0 {
		return enc.Name{}
	}
	ret := make(enc.Name, len(ss))
	for i, s := range ss {
		ret[i] = enc.NewGenericComponent(s)
	}
	return ret
}

func encodeInterest(interest *defn.FwInterest) *frame {
	w := &wireInterest{
		Name:           namesToStrings(interest.NameV),
		SupportingName: namesToStrings(interest.SupportingNameV),
	}
	if nonce, ok := interest.NonceV.Get(); ok {
		w.Nonce = nonce
		w.HasNonce = true
	}
	return &frame{Kind: frameInterest, Interest: w}
}

func decodeInterest(w *wireInterest) *defn.FwInterest {
	interest := &defn.FwInterest{
		NameV:           stringsToName(w.Name),
		SupportingNameV: stringsToName(w.SupportingName),
	}
	if w.HasNonce {
		interest.NonceV.Set(w.Nonce)
	}
	return interest
}

func encodeData(data *defn.FwData) *frame {
	w := &wireData{
		Name:           namesToStrings(data.NameV),
		SupportingName: namesToStrings(data.SupportingNameV),
		Content:        data.Content,
	}
	if freshness, ok := data.FreshnessV.Get(); ok {
		w.FreshnessNanos = int64(freshness)
		w.HasFreshness = true
	}
	return &frame{Kind: frameData, Data: w}
}

func decodeData(w *wireData) *defn.FwData {
	data := &defn.FwData{
		NameV:           stringsToName(w.Name),
		SupportingNameV: stringsToName(w.SupportingName),
		Content:         w.Content,
	}
	if w.HasFreshness {
		data.FreshnessV.Set(time.Duration(w.FreshnessNanos))
	}
	return data
}

// writeFrame writes a length-prefixed gob-encoded frame to w.
func writeFrame(w io.Writer, f *frame) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return err
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// readFrame reads one length-prefixed gob-encoded frame from r.
func readFrame(r io.Reader) (*frame, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	var f frame
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func encodeFrameBytes(f *frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFrameBytes(b []byte) (*frame, error) {
	var f frame
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}
