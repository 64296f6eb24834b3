package ping

import (
	"fmt"
	"time"

	"cyanbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type Feature struct{}

func New() *Feature {
	return &Feature{}
}

// HandleCommand reports the gateway heartbeat latency
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.Respond(s, i, pongMessage(s.HeartbeatLatency()), true); err != nil {
		log.Errorf("Error responding to ping command: %v", err)
	}
}

func pongMessage(latency time.Duration) string {
	return fmt.Sprintf("🏓 Pong! %dms", latency.Milliseconds())
}
