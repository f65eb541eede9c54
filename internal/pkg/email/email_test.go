package email

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAwardNoticeWithoutCredentialsIsSkipped(t *testing.T) {
	var logs bytes.Buffer
	svc := NewEmailService(SMTPConfig{Host: "localhost", Port: 25}, zerolog.New(&logs))

	sent, err := svc.SendAwardNotice("juan@example.com", AwardNotice{AwardNumber: "TDP-001", ProgramName: "Tulong Dunong Program"}, nil)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Contains(t, logs.String(), "TDP-001")
}

func TestBuildMessageCarriesAttachment(t *testing.T) {
	svc := &EmailServiceImpl{config: SMTPConfig{FromName: "Regional Office", FromEmail: "ro@example.gov.ph"}}

	raw, err := svc.buildMessage("juan@example.com", "Notice of Award", "<p>hi</p>", &Attachment{
		Filename: "noa.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 test"),
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Notice of Award", msg.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	html, err := mr.NextPart()
	require.NoError(t, err)
	body, _ := io.ReadAll(html)
	assert.Equal(t, "<p>hi</p>", string(body))

	att, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "noa.pdf", att.FileName())
	encoded, _ := io.ReadAll(att)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(encoded)), "JVBERi0xLjQgdGVzdA"))
}

func TestBuildMessageEncodesNonASCIIHeaders(t *testing.T) {
	svc := &EmailServiceImpl{config: SMTPConfig{FromName: "Oficina Rehiyonal Niño", FromEmail: "ro@example.gov.ph"}}
	subject := "Notice of Award - Programa sa Pagpapaunlad ng Edukasyong Pang-Kolehiyo (Señor)"

	raw, err := svc.buildMessage("juan@example.com", subject, "<p>hi</p>", &Attachment{
		Filename: "NOA-Peña.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 test"),
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	rawSubject := msg.Header.Get("Subject")
	assert.True(t, strings.HasPrefix(rawSubject, "=?utf-8?q?"), rawSubject)
	for _, r := range rawSubject {
		require.Less(t, r, rune(128), "header must be 7-bit: %q", rawSubject)
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(rawSubject)
	require.NoError(t, err)
	assert.Equal(t, subject, decoded)

	from, err := msg.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Oficina Rehiyonal Niño", from[0].Name)
	assert.Equal(t, "ro@example.gov.ph", from[0].Address)

	_, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	mr := multipart.NewReader(msg.Body, params["boundary"])
	_, err = mr.NextPart()
	require.NoError(t, err)
	att, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "NOA-Peña.pdf", att.FileName())
}

func TestBuildMessageKeepsASCIISubject(t *testing.T) {
	svc := &EmailServiceImpl{config: SMTPConfig{FromName: "Regional Office", FromEmail: "ro@example.gov.ph"}}
	raw, err := svc.buildMessage("juan@example.com", "Notice of Award - TDP", "<p>hi</p>", nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Subject: Notice of Award - TDP\r\n")
	assert.Contains(t, string(raw), "From: \"Regional Office\" <ro@example.gov.ph>\r\n")
}
