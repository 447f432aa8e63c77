package core

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	conf := NewTestConfig()

	t.Run("plain body", func(t *testing.T) {
		msg := EmailMessage{To: []mail.Address{{Address: "a@test.cd"}}, BodyStr: "hello"}
		require.NoError(t, msg.Render(conf))
		assert.Equal(t, "hello", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
		assert.True(t, msg.HasRecipients())
		assert.True(t, msg.HasContent())
	})

	t.Run("template", func(t *testing.T) {
		msg := EmailMessage{
			TemplateName: "password_reset",
			TemplateData: map[string]interface{}{"Name": "Jane", "UID": "dWlk", "Token": "tok-en"},
		}
		require.NoError(t, msg.Render(conf))
		assert.Contains(t, msg.TextContent, "Hi Jane,")
		assert.Contains(t, msg.TextContent, conf.FrontendBaseURL+"/password-reset/dWlk/tok-en")
		assert.Contains(t, msg.TextContent, "The "+conf.AppName+" team")
		assert.Contains(t, msg.HTMLContent, "Jane")
		assert.False(t, msg.HasRecipients())
	})

	t.Run("missing template data", func(t *testing.T) {
		msg := EmailMessage{TemplateName: "password_reset", TemplateData: map[string]interface{}{"Name": "Jane"}}
		assert.Error(t, msg.Render(conf))
	})

	t.Run("unknown template", func(t *testing.T) {
		msg := EmailMessage{TemplateName: "lol"}
		require.NoError(t, msg.Render(conf))
		assert.False(t, msg.HasContent())
	})
}
