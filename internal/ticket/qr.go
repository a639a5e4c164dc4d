package ticket

import (
	"bytes"
	"io"

	"github.com/yeqown/go-qrcode"
)

// RenderQR writes the ticket QR code to w as PNG.
func RenderQR(t Ticket, w io.Writer) error {
	qrc, err := qrcode.New(t.QRText(), qrcode.WithBuiltinImageEncoder(qrcode.PNG_FORMAT))
	if err != nil {
		return err
	}
	return qrc.SaveTo(w)
}

func RenderQRBytes(t Ticket) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderQR(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
