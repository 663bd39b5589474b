package at

import "context"

// URCName identifies one of the unsolicited result codes the modem can be
// configured to emit.
type URCName int

// The full set of URCs a Quectel EC200/EG915U modem can report, carried
// over from the C ril_urc.h registry this driver replaces. Several names
// share a prefix (e.g. URCCREG and URCCREGLoc both match "+CREG") because
// the modem's verbosity level for that family is selected by which
// activation command was last sent, not by the prefix itself.
const (
	URCCREG URCName = iota
	URCCREGLoc
	URCCEREG
	URCCGREG
	URCCGREGLoc
	URCCTZV
	URCCTZE
	URCCMTI
	URCCMTText
	URCCDSText
	URCCDSI
	URCCOLP
	URCCLIP
	URCCRing
	URCRDY
	URCCFUN
	URCCPIN
	URCQINDSMSDone
	URCQINDPBDone
	URCCGEREPReject
	URCCGEREPNWReact
	URCCGEREPNWDeact
	URCCGEREPMEDeact
	URCCGEREPNWDetach
	URCCGEREPMEDetach
	URCCGEREPNWClass
	URCCGEREPMEClass
	URCCGEREPPDNAct
	URCCGEREPPDNDeact
	URCUSIM0
	URCUSIM1
	URCQINDCSQ
	URCQINDSMSFull
	URCQINDAct
	URCQSIMStat
	URCQCSQ
	URCQNetDevStatus
	URCQMTStat
	URCQMTRecv
	URCQMTPing
	urcMax
)

// urcEntry describes one URC: the prefix nLoop matches incoming lines
// against, the command used to switch the modem into emitting it (empty if
// the URC is always on, or controlled by another entry's activation), and
// the registry's needsActivation flag. Activate does not consult that flag:
// it sends any non-empty activation command, once per distinct command
// string (so the +CGEV family shares a single activation).
type urcEntry struct {
	name            URCName
	prefix          string
	activation      string
	needsActivation bool
}

var urcRegistry = [urcMax]urcEntry{
	URCCREG:           {URCCREG, "+CREG", "+CREG=1", false},
	URCCREGLoc:        {URCCREGLoc, "+CREG", "+CREG=2", false},
	URCCEREG:          {URCCEREG, "+CEREG", "+CEREG=2", false},
	URCCGREG:          {URCCGREG, "+CGREG", "+CGREG=1", false},
	URCCGREGLoc:       {URCCGREGLoc, "+CGREG", "+CGREG=2", false},
	URCCTZV:           {URCCTZV, "+CTZV", "+CTZR=1", false},
	URCCTZE:           {URCCTZE, "+CTZE", "+CTZR=2", false},
	URCCMTI:           {URCCMTI, "+CMTI", "+CNMI=2,1,0,1,0", false},
	URCCMTText:        {URCCMTText, "+CMT", "", false},
	URCCDSText:        {URCCDSText, "+CDS", "", false},
	URCCDSI:           {URCCDSI, "+CDSI", "", false},
	URCCOLP:           {URCCOLP, "+COLP", "+COLP=1", false},
	URCCLIP:           {URCCLIP, "+CLIP", "+CLIP=1", false},
	URCCRing:          {URCCRing, "+CRING", "+CRC=1", false},
	URCRDY:            {URCRDY, "RDY", "", false},
	URCCFUN:           {URCCFUN, "+CFUN: 1", "", false},
	URCCPIN:           {URCCPIN, "+CPIN", "", false},
	URCQINDSMSDone:    {URCQINDSMSDone, "+QIND: SMS DONE", "", false},
	URCQINDPBDone:     {URCQINDPBDone, "+QIND: PB DONE", "", false},
	URCCGEREPReject:   {URCCGEREPReject, "+CGEV: REJECT", "+CGEREP=1,1", true},
	URCCGEREPNWReact:  {URCCGEREPNWReact, "+CGEV: NW REACT", "+CGEREP=1,1", false},
	URCCGEREPNWDeact:  {URCCGEREPNWDeact, "+CGEV: NW DEACT", "+CGEREP=1,1", false},
	URCCGEREPMEDeact:  {URCCGEREPMEDeact, "+CGEV: ME DEACT", "+CGEREP=1,1", false},
	URCCGEREPNWDetach: {URCCGEREPNWDetach, "+CGEV: NW DETACH", "+CGEREP=1,1", false},
	URCCGEREPMEDetach: {URCCGEREPMEDetach, "+CGEV: ME DETACH", "+CGEREP=1,1", false},
	URCCGEREPNWClass:  {URCCGEREPNWClass, "+CGEV: NW CLASS", "+CGEREP=1,1", false},
	URCCGEREPMEClass:  {URCCGEREPMEClass, "+CGEV: ME CLASS", "+CGEREP=1,1", false},
	URCCGEREPPDNAct:   {URCCGEREPPDNAct, "+CGEV: PDN ACT", "+CGEREP=1,1", false},
	URCCGEREPPDNDeact: {URCCGEREPPDNDeact, "+CGEV: PDN DEACT", "+CGEREP=1,1", false},
	URCUSIM0:          {URCUSIM0, "+USIM: 0", "", false},
	URCUSIM1:          {URCUSIM1, "+USIM: 1", "", false},
	URCQINDCSQ:        {URCQINDCSQ, `+QIND: "csq"`, `+QINDCFG="csq",0,0`, false},
	URCQINDSMSFull:    {URCQINDSMSFull, `+QIND: "smsfull"`, `+QINDCFG="smsfull",1,0`, true},
	URCQINDAct:        {URCQINDAct, `+QIND: "act"`, `+QINDCFG="act",1,0`, false},
	URCQSIMStat:       {URCQSIMStat, "+QSIMSTAT", "+QSIMSTAT=1", false},
	URCQCSQ:           {URCQCSQ, "+QCSQ", "+QCSQ=0", false},
	URCQNetDevStatus:  {URCQNetDevStatus, "+QNETDEVSTATUS", "", false},
	URCQMTStat:        {URCQMTStat, "+QMTSTAT", "", false},
	URCQMTRecv:        {URCQMTRecv, "+QMTRECV", "", false},
	URCQMTPing:        {URCQMTPing, "+QMTPING", "", false},
}

// Dispatcher subscribes callers to named URCs over an AT, translating a
// registry entry into the prefix AddIndication needs and tracking which
// activation commands have already been issued so Activate is idempotent.
type Dispatcher struct {
	at        *AT
	activated map[string]bool
}

// NewDispatcher creates a Dispatcher bound to a.
func NewDispatcher(a *AT) *Dispatcher {
	return &Dispatcher{at: a, activated: make(map[string]bool)}
}

// Subscribe registers for a named URC, returning a channel of parameter
// lines for each occurrence. trailingLines is the number of lines following
// the prefix line that belong to the same event (0 for single line URCs).
func (d *Dispatcher) Subscribe(name URCName, trailingLines int) (<-chan []string, error) {
	e := urcRegistry[name]
	return d.at.AddIndication(e.prefix, trailingLines)
}

// Unsubscribe cancels a previous Subscribe.
func (d *Dispatcher) Unsubscribe(name URCName) {
	e := urcRegistry[name]
	d.at.CancelIndication(e.prefix)
}

// Activate issues the activation command for name, if it has one and it has
// not already been sent. Entries that share an activation command (such as
// the +CGEV family) are only sent once.
func (d *Dispatcher) Activate(ctx context.Context, name URCName) error {
	e := urcRegistry[name]
	if e.activation == "" {
		return nil
	}
	if d.activated[e.activation] {
		return nil
	}
	if _, err := d.at.Command(ctx, e.activation); err != nil {
		return err
	}
	d.activated[e.activation] = true
	return nil
}
