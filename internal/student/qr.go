package student

import (
	"encoding/base64"
	"encoding/json"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPayload is the JSON encoded into the student's QR code. Scanning feeds
// the same studentId back into the mark flow; the timestamp is
// client-correlation only and is not validated server-side.
type QRPayload struct {
	StudentID  string `json:"studentId"`
	RollNumber string `json:"rollNumber"`
	Timestamp  int64  `json:"timestamp"`
}

const qrSize = 300

// QRCode renders the student's QR payload as a PNG data URL.
func QRCode(studentID, rollNumber string) (string, error) {
	payload, err := json.Marshal(QRPayload{
		StudentID:  studentID,
		RollNumber: rollNumber,
		Timestamp:  time.Now().UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
