package messaging

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	start := time.Unix(1000, 0)

	s := NewSnapshot(4096, 16384, start, start.Add(2*time.Second))
	assert.InDelta(t, 25.0, s.Percent, 0.001)
	assert.Equal(t, "■■■□□□□□□□□□", s.Bar)
	assert.InDelta(t, 2048.0, s.Speed, 0.001)
	assert.Equal(t, 6*time.Second, s.ETA)

	full := NewSnapshot(16384, 16384, start, start.Add(4*time.Second))
	assert.InDelta(t, 100.0, full.Percent, 0.001)
	assert.Equal(t, strings.Repeat("■", 12), full.Bar)
	assert.Zero(t, full.ETA)
}

func TestNewSnapshotNoElapsedTime(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewSnapshot(100, 1000, start, start)
	assert.Zero(t, s.Speed)
	assert.Zero(t, s.ETA)
	assert.Equal(t, "■□□□□□□□□□□□", s.Bar)
}

func TestNewSnapshotMonotonic(t *testing.T) {
	start := time.Unix(1000, 0)
	const total = 100_000
	prev := -1.0
	for done := int64(0); done <= total; done += 8192 {
		s := NewSnapshot(done, total, start, start.Add(time.Second))
		assert.GreaterOrEqual(t, s.Percent, prev)
		assert.Equal(t, 12, len([]rune(s.Bar)))
		prev = s.Percent
	}
}

func TestRenderProgress(t *testing.T) {
	start := time.Unix(1000, 0)
	snap := NewSnapshot(1536, 3072, start, start.Add(time.Second))

	down := RenderProgress(PhaseDownload, snap)
	assert.Contains(t, down, "📥 Downloading File")
	assert.Contains(t, down, "<b>Size:</b> <code>1.5 KB</code> / <code>3.0 KB</code>")
	assert.Contains(t, down, "<code>50.0%</code>")
	assert.Contains(t, down, "<code>1.5 KB/s</code>")

	up := RenderProgress(PhaseUpload, snap)
	assert.Contains(t, up, "📤 Uploading File")
	assert.Contains(t, up, "Uploaded:")
	assert.NotContains(t, up, "Size:")

	text, entities := ParseCaptionEntities(down)
	assert.NotContains(t, text, "<b>")
	assert.NotEmpty(t, entities)
}

func TestParseCaptionEntities(t *testing.T) {
	text, entities := ParseCaptionEntities(`Hi <b>bold</b> 🚀 <code>x</code> <a href="https://t.me/c">link</a>`)
	assert.Equal(t, "Hi bold 🚀 x link", text)
	require.Len(t, entities, 3)

	assert.Equal(t, &tg.MessageEntityBold{Offset: 3, Length: 4}, entities[0])
	// the rocket is a surrogate pair in UTF-16
	assert.Equal(t, &tg.MessageEntityCode{Offset: 11, Length: 1}, entities[1])
	assert.Equal(t, &tg.MessageEntityTextURL{Offset: 13, Length: 4, URL: "https://t.me/c"}, entities[2])
}

func TestParseCaptionEntitiesPlain(t *testing.T) {
	text, entities := ParseCaptionEntities("no tags <here")
	assert.Equal(t, "no tags <here", text)
	assert.Empty(t, entities)
}

func TestEscapedValuesStayPlain(t *testing.T) {
	text, entities := ParseCaptionEntities(StatusFailed(errors.New(`bad <b>x</b> & "y"`)))
	assert.Equal(t, `❌ Failed to process link: bad <b>x</b> & "y"`, text)
	assert.Empty(t, entities)

	text, entities = ParseCaptionEntities(FillTemplate("Hi <b>{user}</b>", "<code>eve</code>", "ch"))
	assert.Equal(t, "Hi <code>eve</code>", text)
	require.Len(t, entities, 1)
	assert.Equal(t, &tg.MessageEntityBold{Offset: 3, Length: 16}, entities[0])
}

func TestCaptions(t *testing.T) {
	assert.Equal(t, "#terabox\nUser: 42\nLink: https://terabox.com/s/1", DumpCaption(42, "https://terabox.com/s/1"))
	assert.Equal(t, "Terabox downloader @mychannel", RelayCaption("mychannel"))
}

func TestStatusTexts(t *testing.T) {
	assert.Equal(t, "❌ Failed to process link (Status: 404)", StatusUpstream(404))
	assert.Equal(t, "❌ Failed to process link: boom", StatusFailed(errors.New("boom")))
	assert.Equal(t, "hi @bob, join @ch", FillTemplate("hi {user}, join @{channel}", "@bob", "ch"))
}

func TestCancelData(t *testing.T) {
	id, ok := ParseCancelData(CancelData("abc-123"))
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)

	_, ok = ParseCancelData([]byte("cancel"))
	assert.False(t, ok)
	_, ok = ParseCancelData([]byte("cancel:"))
	assert.False(t, ok)
	_, ok = ParseCancelData([]byte(CallbackCheckSub))
	assert.False(t, ok)
}

func TestKeyboards(t *testing.T) {
	kb := ForceSubKeyboard("mychannel")
	require.Len(t, kb.Rows, 1)
	require.Len(t, kb.Rows[0].Buttons, 2)

	join, ok := kb.Rows[0].Buttons[0].(*tg.KeyboardButtonURL)
	require.True(t, ok)
	assert.Equal(t, "🔔 Join Channel", join.Text)
	assert.Equal(t, "https://t.me/mychannel", join.URL)

	check, ok := kb.Rows[0].Buttons[1].(*tg.KeyboardButtonCallback)
	require.True(t, ok)
	assert.Equal(t, "🔄 Check Again", check.Text)
	assert.Equal(t, []byte("checksub"), check.Data)

	cancel, ok := CancelKeyboard("t1").Rows[0].Buttons[0].(*tg.KeyboardButtonCallback)
	require.True(t, ok)
	assert.Equal(t, "❌ Cancel", cancel.Text)
	assert.Equal(t, []byte("cancel:t1"), cancel.Data)
}

func TestSenderName(t *testing.T) {
	e := tg.Entities{Users: map[int64]*tg.User{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, FirstName: "Bob", LastName: "Smith"},
	}}

	msg := &tg.Message{PeerID: &tg.PeerUser{UserID: 1}}
	assert.Equal(t, int64(1), SenderID(msg))
	assert.Equal(t, "@alice", SenderName(e, msg))

	msg = &tg.Message{PeerID: &tg.PeerUser{UserID: 2}}
	assert.Equal(t, "Bob Smith", SenderName(e, msg))

	msg = &tg.Message{PeerID: &tg.PeerUser{UserID: 3}}
	assert.Equal(t, "User", SenderName(e, msg))
}
