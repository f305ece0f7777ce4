package wid

import "time"

// Record is a parsed identifier of either family.
type Record interface {
	// Kind reports the identifier family.
	Kind() Kind

	// Time is the UTC instant of the timestamp section.
	Time() time.Time

	// Format re-renders the record with p; for a record parsed with the
	// same params the result equals the input text.
	Format(p Params) string
}

// Wid is a parsed plain WID.
type Wid struct {
	Raw       string
	Timestamp time.Time
	Tick      int64
	Sequence  int
	Scope     string
	Padding   string
}

func (w *Wid) Kind() Kind      { return KindWID }
func (w *Wid) Time() time.Time { return w.Timestamp }

func (w *Wid) Format(p Params) string {
	return FormatWid(p, w.Tick, w.Sequence, w.Scope, w.Padding)
}

// State is the (tick, seq) pair the WID encodes.
func (w *Wid) State() State {
	return State{LastTick: w.Tick, LastSeq: w.Sequence}
}

// HLCWid is a parsed HLC-WID.
type HLCWid struct {
	Raw            string
	Timestamp      time.Time
	Tick           int64
	LogicalCounter int
	Node           string
	Padding        string
}

func (h *HLCWid) Kind() Kind      { return KindHLC }
func (h *HLCWid) Time() time.Time { return h.Timestamp }

func (h *HLCWid) Format(p Params) string {
	return FormatHLC(p, h.Tick, h.LogicalCounter, h.Node, h.Padding)
}

// Clock is the (pt, lc) pair the HLC-WID encodes.
func (h *HLCWid) Clock() HLCState {
	return HLCState{PT: h.Tick, LC: h.LogicalCounter}
}
