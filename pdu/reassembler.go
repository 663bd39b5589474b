package pdu

import (
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/sms"
	"github.com/warthog618/sms/encoding/tpdu"
)

// Reassembler buffers the segments of a concatenated SMS until the full set
// has arrived, then emits the joined text. It is a thin adapter over
// sms.Collector, grounded on this driver's predecessor's use of
// sms.NewCollector to reassemble multi-part messages received via an
// indication.
type Reassembler struct {
	c *sms.Collector
}

// NewReassembler creates a Reassembler. timeout bounds how long an
// incomplete set of segments is retained before being discarded; onTimeout,
// if non-nil, is invoked with the still-incomplete segments when that
// happens.
func NewReassembler(timeout time.Duration, onTimeout func([]*tpdu.TPDU)) *Reassembler {
	var opts []sms.CollectorOption
	if timeout > 0 {
		cb := onTimeout
		if cb == nil {
			cb = func([]*tpdu.TPDU) {}
		}
		opts = append(opts, sms.WithReassemblyTimeout(timeout, cb))
	}
	return &Reassembler{c: sms.NewCollector(opts...)}
}

// Close releases resources held by the Reassembler, including any pending
// reassembly timers.
func (r *Reassembler) Close() {
	r.c.Close()
}

// Add feeds one received TPDU into the reassembler. It returns ok=true once
// every segment of the message has arrived, at which point msg is the fully
// decoded text.
func (r *Reassembler) Add(tp *tpdu.TPDU) (msg DeliverParams, ok bool, err error) {
	tpdus, err := r.c.Collect(*tp)
	if err != nil {
		return DeliverParams{}, false, errors.WithMessage(err, "collect segment")
	}
	if tpdus == nil {
		// not yet complete
		return DeliverParams{}, false, nil
	}
	text, err := sms.Decode(tpdus)
	if err != nil {
		return DeliverParams{}, false, errors.WithMessage(err, "decode reassembled message")
	}
	ts, _ := tpdus[0].SCTS.UTCTime()
	return DeliverParams{
		From:      fromTPDUAddress(tpdus[0].OA),
		Text:      string(text),
		Timestamp: ts,
	}, true, nil
}
