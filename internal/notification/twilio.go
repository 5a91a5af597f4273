package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioMessagesURL = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// TwilioNotifier sends codes as SMS through the Twilio Messages API.
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// NewTwilioNotifier constructs a Twilio-backed notifier.
func NewTwilioNotifier(accountSID, authToken, from string) *TwilioNotifier {
	return &TwilioNotifier{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendCode delivers the code to phone via SMS. Delivery failures propagate
// to the caller; there are no retries here.
func (n *TwilioNotifier) SendCode(ctx context.Context, phone, code string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", n.from)
	form.Set("Body", fmt.Sprintf("Your verification code is %s", code))

	endpoint := fmt.Sprintf(twilioMessagesURL, n.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send sms: twilio status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
