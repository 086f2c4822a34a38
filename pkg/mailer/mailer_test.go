package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sesv2.SendEmailOutput), args.Error(1)
}

func testMessage() *Message {
	return &Message{
		To:          "a@x.com",
		FromEmail:   "news@leadflow.local",
		FromName:    "LeadFlow",
		Subject:     "Hello",
		Preheader:   "Spring offers",
		HTMLContent: "<p>Hi</p>",
		Tags:        map[string]string{"campaign_id": "c1"},
	}
}

func TestSESSender_Send(t *testing.T) {
	api := new(mockSES)
	sender := &SESSender{client: api, log: zap.NewNop()}

	api.On("SendEmail", mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == "LeadFlow <news@leadflow.local>" &&
			in.Destination.ToAddresses[0] == "a@x.com" &&
			aws.ToString(in.Content.Simple.Subject.Data) == "Hello" &&
			len(in.EmailTags) == 1
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil)

	id, err := sender.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	api.AssertExpectations(t)
}

func TestSESSender_SendError(t *testing.T) {
	api := new(mockSES)
	sender := &SESSender{client: api, log: zap.NewNop()}
	api.On("SendEmail", mock.Anything).Return(nil, errors.New("throttled"))

	_, err := sender.Send(context.Background(), testMessage())
	assert.ErrorContains(t, err, "throttled")
}

func TestSESInput_Preheader(t *testing.T) {
	in := sesInput(testMessage())
	assert.Contains(t, aws.ToString(in.Content.Simple.Body.Html.Data), "Spring offers")
	assert.Contains(t, aws.ToString(in.Content.Simple.Body.Html.Data), "<p>Hi</p>")
}

func TestMessage_Validate(t *testing.T) {
	msg := testMessage()
	msg.To = ""
	assert.Error(t, msg.Validate())

	_, err := NewMockSender(zap.NewNop()).Send(context.Background(), msg)
	assert.Error(t, err)
}

func TestMockSender(t *testing.T) {
	sender := NewMockSender(zap.NewNop())
	sender.Failures["bad@x.com"] = errors.New("mailbox full")

	id, err := sender.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "mock-1", id)

	bad := testMessage()
	bad.To = "bad@x.com"
	_, err = sender.Send(context.Background(), bad)
	assert.EqualError(t, err, "mailbox full")

	require.Len(t, sender.Sent(), 1)
	assert.Equal(t, "a@x.com", sender.Sent()[0].To)
}

func TestRenderer(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("Hi {{ first_name | default: \"there\" }}, your plan is {{ plan }}.", map[string]interface{}{
		"first_name": "Ada",
		"plan":       "pro",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada, your plan is pro.", out)

	out, err = r.Render("Hi {{ first_name | default: \"there\" }}!", map[string]interface{}{"first_name": ""})
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", out)

	_, err = r.Render("{% if %}", nil)
	assert.Error(t, err)

	msg := testMessage()
	msg.Subject = "Hello {{ first_name }}"
	require.NoError(t, r.Personalize(msg, map[string]interface{}{"first_name": "Ada"}))
	assert.Equal(t, "Hello Ada", msg.Subject)
}
