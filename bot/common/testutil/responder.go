package testutil

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Call names recorded by Responder and by ledger mocks wired through Record
const (
	CallDefer    = "defer"
	CallRespond  = "respond"
	CallDelete   = "delete"
	CallFollowUp = "followup"
	CallLedger   = "ledger"
)

// Responder records interaction replies in the order they were made.
// It satisfies common.Responder.
type Responder struct {
	mu        sync.Mutex
	calls     []string
	responses []*discordgo.InteractionResponse
	followUps []*discordgo.WebhookParams

	// DeferErr is returned when the handler tries to defer
	DeferErr error
}

// Record appends an arbitrary call to the log, e.g. CallLedger from a mock's Run hook
func (r *Responder) Record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns the recorded call log
func (r *Responder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Responses returns every initial interaction response
func (r *Responder) Responses() []*discordgo.InteractionResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*discordgo.InteractionResponse(nil), r.responses...)
}

// FollowUps returns every follow-up message
func (r *Responder) FollowUps() []*discordgo.WebhookParams {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*discordgo.WebhookParams(nil), r.followUps...)
}

// LastFollowUp returns the most recent follow-up, or nil
func (r *Responder) LastFollowUp() *discordgo.WebhookParams {
	followUps := r.FollowUps()
	if len(followUps) == 0 {
		return nil
	}
	return followUps[len(followUps)-1]
}

func (r *Responder) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	call := CallRespond
	if resp.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource {
		call = CallDefer
	}
	r.Record(call)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
	if call == CallDefer {
		return r.DeferErr
	}
	return nil
}

func (r *Responder) InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error {
	r.Record(CallDelete)
	return nil
}

func (r *Responder) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.Record(CallFollowUp)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.followUps = append(r.followUps, data)
	return &discordgo.Message{ID: "followup", Content: data.Content, Embeds: data.Embeds}, nil
}
