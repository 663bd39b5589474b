// Package pdu implements the SMS PDU data model and encode/decode
// operations used to submit and receive short messages in PDU mode, per
// 3GPP TS 23.040. The bit-level TPDU/septet/DCS work is delegated to
// github.com/warthog618/sms, which already implements that precisely; this
// package supplies the driver's own parameter types and operation names
// around it.
package pdu

import (
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/sms"
	"github.com/warthog618/sms/encoding/pdumode"
	"github.com/warthog618/sms/encoding/tpdu"
)

// PhoneNumber is an address (originator, destination or SMSC) as carried in
// a PDU.
type PhoneNumber struct {
	Number        string
	International bool
}

// tpduAddress converts a PhoneNumber into the wire Address type.
func (p PhoneNumber) tpduAddress() tpdu.Address {
	ntype := byte(0x81) // national, ISDN/telephone numbering plan
	if p.International {
		ntype = 0x91
	}
	return tpdu.Address{TOA: ntype, Addr: p.Number}
}

func fromTPDUAddress(a tpdu.Address) PhoneNumber {
	return PhoneNumber{
		Number:        a.Number(),
		International: a.TOA&0x70 == 0x10,
	}
}

// ConcatHeader describes the concatenated-SMS header (UDH IEI 0x00 or
// 0x08) carried by one segment of a multi-part message.
type ConcatHeader struct {
	Reference int
	Total     int
	Seq       int
}

// SubmitParams is the caller supplied content of an SMS-SUBMIT.
type SubmitParams struct {
	To             PhoneNumber
	SCA            *PhoneNumber // overrides the SIM default SMSC, if set
	Text           string
	ValidityPeriod time.Duration // 0 means "not present"
}

// EncodedPDU is one segment of an, possibly concatenated, encoded message,
// ready to be sent with at.AT.SMSCommand("+CMGS=<TPDULen>", HexTPDU).
type EncodedPDU struct {
	HexTPDU string
	TPDULen int
}

// EncodeSubmit splits and encodes an outgoing message into one or more
// SMS-SUBMIT PDUs, applying GSM-7, UCS-2 or 8-bit encoding automatically and
// adding a concatenation UDH across segments when the text doesn't fit in a
// single PDU.
func EncodeSubmit(p SubmitParams) ([]EncodedPDU, error) {
	opts := []sms.EncoderOption{sms.To(p.To.Number), sms.WithAllCharsets}
	if p.ValidityPeriod > 0 {
		opts = append(opts, sms.WithValidityPeriod(p.ValidityPeriod))
	}
	tpdus, err := sms.Encode([]byte(p.Text), opts...)
	if err != nil {
		return nil, errors.WithMessage(err, "encode submit")
	}
	sca := pdumode.SMSCAddress{}
	if p.SCA != nil {
		sca = pdumode.SMSCAddress{TOA: p.SCA.tpduAddress().TOA, Addr: p.SCA.Number}
	}
	out := make([]EncodedPDU, 0, len(tpdus))
	for _, tp := range tpdus {
		tb, err := tp.MarshalBinary()
		if err != nil {
			return nil, errors.WithMessage(err, "marshal tpdu")
		}
		pm := pdumode.PDU{SMSC: sca, TPDU: tb}
		hs, err := pm.MarshalHexString()
		if err != nil {
			return nil, errors.WithMessage(err, "marshal pdu mode header")
		}
		out = append(out, EncodedPDU{HexTPDU: hs, TPDULen: len(tb)})
	}
	return out, nil
}

// DeliverParams is a fully decoded, reassembled, incoming message.
type DeliverParams struct {
	From      PhoneNumber
	Text      string
	Timestamp time.Time
}

// DecodeDeliver parses one SMS-DELIVER PDU, in the PDU-mode wire form the
// modem reports via +CMT/+CMGR (SMSC octets followed by the TPDU), as a
// single TPDU ready to be handed to a Reassembler.
func DecodeDeliver(hexPDU string) (*tpdu.TPDU, error) {
	pm, err := pdumode.UnmarshalHexString(hexPDU)
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal pdu mode header")
	}
	tp := &tpdu.TPDU{}
	if err := tp.UnmarshalBinary(pm.TPDU); err != nil {
		return nil, errors.WithMessage(err, "unmarshal tpdu")
	}
	return tp, nil
}

// DecodeSingle decodes a single, non-concatenated TPDU directly to text,
// bypassing the Reassembler. Most callers that may receive a concatenated
// message should use a Reassembler instead.
func DecodeSingle(tp *tpdu.TPDU) (DeliverParams, error) {
	text, err := sms.Decode([]*tpdu.TPDU{tp})
	if err != nil {
		return DeliverParams{}, errors.WithMessage(err, "decode tpdu")
	}
	ts, _ := tp.SCTS.UTCTime()
	return DeliverParams{
		From:      fromTPDUAddress(tp.OA),
		Text:      string(text),
		Timestamp: ts,
	}, nil
}
