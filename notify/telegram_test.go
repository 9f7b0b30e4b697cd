package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sales_analyzer/apperrors"
)

type fakeSender struct {
	sent   []tgbotapi.Chattable
	failAt int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.failAt > 0 && len(f.sent) == f.failAt {
		return tgbotapi.Message{}, errors.New("connection reset")
	}
	return tgbotapi.Message{}, nil
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestDeliver(t *testing.T) {
	dir := t.TempDir()
	artifacts := []string{
		writeFile(t, dir, "monthly_sales_trend.png", 1000),
		writeFile(t, dir, "category_city_sales.png", maxSizePhoto+1),
		writeFile(t, dir, "price_quantity_scatter.html", 10),
	}
	sender := &fakeSender{}

	err := NewWithSender(sender, 42, nil).Deliver("Total sales: <¥33,001.46>", artifacts)
	require.NoError(t, err)
	require.Len(t, sender.sent, 5)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Equal(t, "<pre>\nTotal sales: &lt;¥33,001.46&gt;\n</pre>", msg.Text)

	report, ok := sender.sent[1].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, ReportFileName, report.File.(tgbotapi.FileBytes).Name)

	photo, ok := sender.sent[2].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, "monthly sales trend", photo.Caption)

	_, ok = sender.sent[3].(tgbotapi.DocumentConfig)
	assert.True(t, ok, "large png goes out as a document")
	_, ok = sender.sent[4].(tgbotapi.DocumentConfig)
	assert.True(t, ok, "html goes out as a document")
}

func TestDeliverLongReportSkipsMessage(t *testing.T) {
	sender := &fakeSender{}
	long := make([]byte, maxMessageLength)
	for i := range long {
		long[i] = 'x'
	}

	require.NoError(t, NewWithSender(sender, 1, nil).Deliver(string(long), nil))
	require.Len(t, sender.sent, 1)
	_, ok := sender.sent[0].(tgbotapi.DocumentConfig)
	assert.True(t, ok)
}

func TestDeliverFailures(t *testing.T) {
	dir := t.TempDir()
	chart := writeFile(t, dir, "monthly_sales_trend.png", 10)

	tests := []struct {
		name      string
		failAt    int
		artifacts []string
		sent      int
	}{
		{"message", 1, []string{chart}, 1},
		{"artifact", 3, []string{chart, chart}, 3},
		{"unreadable artifact", 0, []string{filepath.Join(dir, "gone.png")}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{failAt: tt.failAt}
			err := NewWithSender(sender, 1, nil).Deliver("report", tt.artifacts)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeIO, apperrors.CodeOf(err))
			assert.Len(t, sender.sent, tt.sent)
		})
	}
}
