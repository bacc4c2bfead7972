package table

import (
	"time"

	enc "github.com/ndnfw/planes/std/encoding"
	"github.com/ndnfw/planes/fw/defn"
)

// PitInRecord tracks one face that has an outstanding, unexpired Interest
// for a PIT entry's name pending on it.
type PitInRecord struct {
	Face          defn.FaceId
	LatestNonce   uint32
	LatestTimestamp time.Time
	ExpirationTime  time.Time
}

// PitOutRecord tracks one face a PIT entry's Interest has been forwarded
// out on, so a later Data arriving on that face can be matched back.
type PitOutRecord struct {
	Face            defn.FaceId
	LatestNonce     uint32
	LatestTimestamp time.Time
	ExpirationTime  time.Time
}

// PitEntry is one row of the Pending Interest Table: one Interest name
// (plus selectors) currently awaiting Data, together with every face that
// asked for it (InRecords) and every face it was forwarded to (OutRecords).
type PitEntry struct {
	EncName        enc.Name
	CanBePrefix    bool
	MustBeFresh    bool
	SupportingName enc.Name

	InRecords  map[defn.FaceId]*PitInRecord
	OutRecords map[defn.FaceId]*PitOutRecord

	ExpirationTime time.Time
	ArrivalTime    time.Time
	Satisfied      bool

	// UnsatisfyTimer and StragglerTimer are opaque handles the forwarder
	// stores here so it can cancel them from any pipeline that deletes
	// this entry early.
	UnsatisfyTimer any
	StragglerTimer any
}

func newPitEntry(name enc.Name, canBePrefix, mustBeFresh bool) *PitEntry {
	return &PitEntry{
		EncName:     name,
		CanBePrefix: canBePrefix,
		MustBeFresh: mustBeFresh,
		InRecords:   make(map[defn.FaceId]*PitInRecord),
		OutRecords:  make(map[defn.FaceId]*PitOutRecord),
	}
}

// ClearInRecords removes every in-record, used once an entry is satisfied
// and about to be finalized.
func (e *PitEntry) ClearInRecords() {
	e.InRecords = make(map[defn.FaceId]*PitInRecord)
}

// ClearOutRecords removes every out-record.
func (e *PitEntry) ClearOutRecords() {
	e.OutRecords = make(map[defn.FaceId]*PitOutRecord)
}

// InsertInRecord records that interest arrived on inFace, creating a new
// in-record or refreshing the existing one for that face. Returns the
// record, whether a record for inFace already existed, and (if it did)
// the nonce that record previously carried.
func (e *PitEntry) InsertInRecord(interest *defn.FwInterest, inFace defn.FaceId, now time.Time, lifetime time.Duration) (*PitInRecord, bool, uint32) {
	nonce, _ := interest.NonceV.Get()
	if rec, ok := e.InRecords[inFace]; ok {
		prevNonce := rec.LatestNonce
		rec.LatestNonce = nonce
		rec.LatestTimestamp = now
		rec.ExpirationTime = now.Add(lifetime)
		return rec, true, prevNonce
	}
	rec := &PitInRecord{
		Face:            inFace,
		LatestNonce:     nonce,
		LatestTimestamp: now,
		ExpirationTime:  now.Add(lifetime),
	}
	e.InRecords[inFace] = rec
	return rec, false, 0
}

// InsertOutRecord records that interest was forwarded out outFace.
func (e *PitEntry) InsertOutRecord(interest *defn.FwInterest, outFace defn.FaceId, now time.Time, lifetime time.Duration) *PitOutRecord {
	nonce, _ := interest.NonceV.Get()
	if rec, ok := e.OutRecords[outFace]; ok {
		rec.LatestNonce = nonce
		rec.LatestTimestamp = now
		rec.ExpirationTime = now.Add(lifetime)
		return rec
	}
	rec := &PitOutRecord{
		Face:            outFace,
		LatestNonce:     nonce,
		LatestTimestamp: now,
		ExpirationTime:  now.Add(lifetime),
	}
	e.OutRecords[outFace] = rec
	return rec
}

// FindNonce reports whether nonce has already been seen in an in-record
// from a face other than inFace, or in any out-record, signalling an
// Interest loop.
func (e *PitEntry) FindNonce(nonce uint32, inFace defn.FaceId) bool {
	for face, rec := range e.InRecords {
		if face != inFace && rec.LatestNonce == nonce {
			return true
		}
	}
	for _, rec := range e.OutRecords {
		if rec.LatestNonce == nonce {
			return true
		}
	}
	return false
}

// Pit is the Pending Interest Table. Classical and bridge planes keep one;
// the PIT-less plane never instantiates one at all.
type Pit struct {
	entries map[string]*PitEntry
	byToken map[uint64]*PitEntry
	nextTok uint64
}

// NewPit constructs an empty PIT.
func NewPit() *Pit {
	return &Pit{
		entries: make(map[string]*PitEntry),
		byToken: make(map[uint64]*PitEntry),
	}
}

func pitKey(name enc.Name, canBePrefix, mustBeFresh bool) string {
	k := name.String()
	if canBePrefix {
		k += "#P"
	}
	if mustBeFresh {
		k += "#F"
	}
	return k
}

// FindOrInsert returns the PIT entry matching name/selectors exactly,
// creating one if none exists. The second return value reports whether an
// existing entry was found.
func (p *Pit) FindOrInsert(name enc.Name, canBePrefix, mustBeFresh bool) (*PitEntry, bool) {
	key := pitKey(name, canBePrefix, mustBeFresh)
	if e, ok := p.entries[key]; ok {
		return e, true
	}
	e := newPitEntry(name.Clone(), canBePrefix, mustBeFresh)
	e.ArrivalTime = time.Now()
	p.entries[key] = e
	p.nextTok++
	p.byToken[p.nextTok] = e
	return e, false
}

// FindByToken resolves a previously issued PIT token back to its entry.
func (p *Pit) FindByToken(token uint64) *PitEntry {
	return p.byToken[token]
}

// Contains reports whether entry is still live in the PIT. Timer
// callbacks use this to no-op when they fire after the entry has already
// been erased.
func (p *Pit) Contains(entry *PitEntry) bool {
	key := pitKey(entry.EncName, entry.CanBePrefix, entry.MustBeFresh)
	return p.entries[key] == entry
}

// FindAllDataMatches returns every PIT entry whose name is a prefix of (or
// equal to, for an exact-match entry) data's name — i.e. every outstanding
// Interest data could satisfy.
func (p *Pit) FindAllDataMatches(name enc.Name) []*PitEntry {
	var ret []*PitEntry
	for _, e := range p.entries {
		if e.CanBePrefix {
			if e.EncName.IsPrefix(name) {
				ret = append(ret, e)
			}
		} else if e.EncName.Equal(name) {
			ret = append(ret, e)
		}
	}
	return ret
}

// Erase removes entry from the PIT entirely.
func (p *Pit) Erase(entry *PitEntry) {
	key := pitKey(entry.EncName, entry.CanBePrefix, entry.MustBeFresh)
	delete(p.entries, key)
	for tok, e := range p.byToken {
		if e == entry {
			delete(p.byToken, tok)
			break
		}
	}
}

// Size reports the number of live PIT entries.
func (p *Pit) Size() int {
	return len(p.entries)
}
