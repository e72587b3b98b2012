// Package notify sends best-effort SMS updates to students whose votes were
// approved or rejected. A missing Twilio configuration or a send failure is
// logged and otherwise ignored; notification is never load-bearing.
package notify

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/swtichedxp/Naotems-poll/internal/config"
	"github.com/swtichedxp/Naotems-poll/internal/models"
)

type Notifier struct {
	client *twilio.RestClient
	from   string
}

// New returns a Notifier, or nil when Twilio is not configured. A nil
// Notifier is safe to call.
func New(cfg *config.Config) *Notifier {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &Notifier{client: client, from: cfg.TwilioFrom}
}

// VoteDisposed tells the student their vote was approved or rejected.
func (n *Notifier) VoteDisposed(user *models.User, pollTitle, outcome string) {
	if n == nil || user.PhoneNumber == "" {
		return
	}

	var body string
	if outcome == models.StatusApproved {
		body = fmt.Sprintf("Your vote in %q has been approved and counted.", pollTitle)
	} else {
		body = fmt.Sprintf("Your vote in %q was rejected. You may submit a new vote.", pollTitle)
	}

	params := &api.CreateMessageParams{}
	params.SetTo(user.PhoneNumber)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		log.Printf("sms to user %d failed: %v", user.ID, err)
	}
}
