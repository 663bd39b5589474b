package ril

// MQTTError is an AT+QMTxxx result code, transcribed from the Quectel MQTT
// client error table.
type MQTTError int

const (
	MQTTErrConfigAT    MQTTError = 1
	MQTTErrConfigFail  MQTTError = 2
	MQTTErrOpenAT      MQTTError = 3
	MQTTErrOpenFail    MQTTError = 4
	MQTTErrConnAT      MQTTError = 5
	MQTTErrConnFail    MQTTError = 6
	MQTTErrSubAT       MQTTError = 7
	MQTTErrSubFail     MQTTError = 8
	MQTTErrPubAT       MQTTError = 9
	MQTTErrPubFail     MQTTError = 10
	MQTTErrDiscAT      MQTTError = 11
	MQTTErrDiscFail    MQTTError = 12
	MQTTErrCloseAT     MQTTError = 13
	MQTTErrCloseFail   MQTTError = 14
	MQTTErrParam       MQTTError = 15
)

var mqttErrText = map[MQTTError]string{
	MQTTErrConfigAT:   "configuration AT error",
	MQTTErrConfigFail: "configuration failed",
	MQTTErrOpenAT:     "open AT error",
	MQTTErrOpenFail:   "open failed",
	MQTTErrConnAT:     "connect AT error",
	MQTTErrConnFail:   "connect failed",
	MQTTErrSubAT:      "subscribe AT error",
	MQTTErrSubFail:    "subscribe failed",
	MQTTErrPubAT:      "publish AT error",
	MQTTErrPubFail:    "publish failed",
	MQTTErrDiscAT:     "disconnect AT error",
	MQTTErrDiscFail:   "disconnect failed",
	MQTTErrCloseAT:    "close AT error",
	MQTTErrCloseFail:  "close failed",
	MQTTErrParam:      "invalid parameter",
}

func (e MQTTError) Error() string {
	if s, ok := mqttErrText[e]; ok {
		return s
	}
	return "unrecognised MQTT error"
}

// QoS is the MQTT delivery guarantee level.
type QoS int

const (
	QoS0 QoS = 0
	QoS1 QoS = 1
	QoS2 QoS = 2
)
