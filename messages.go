package lobbyqueue

import (
	"fmt"
	"math/rand"
	"strings"
)

// Announcement templates rotate randomly so a busy channel does not read like
// a log file. Placeholders: {player}, {queue}, {current}, {required},
// {remaining}.

var joinMessages = []string{
	"{player} has joined the {queue} queue! {current}/{required} players - {remaining} more needed!",
	"Welcome, {player}, to the {queue} lobby! {current}/{required} assembled - need {remaining} more!",
	"Agent {player} has infiltrated the {queue} queue! {current}/{required} operatives ready - {remaining} more required!",
	"A new challenger, {player}, enters the {queue} arena! {current}/{required} contestants - just {remaining} more!",
	"{player} has answered the {queue} call! {current}/{required} heroes ready - {remaining} slots remain!",
	"The mysterious {player} materializes in the {queue} lobby! {current}/{required} present - {remaining} more sought!",
	"{player} has boarded the {queue} mission! {current}/{required} crew members - {remaining} seats remain!",
}

var leaveMessages = []string{
	"{player} has left the {queue} queue. Currently {current}/{required} players.",
	"{player} bids farewell to the {queue} lobby. {current}/{required} remain.",
	"Agent {player} has been extracted from the {queue} mission! {current}/{required} operatives remain.",
	"{player} must attend to other matters. They've left the {queue} queue. {current}/{required} still waiting.",
	"{player} vanishes from the {queue} queue! {current}/{required} players remain.",
	"Agent {player} has gone dark. Removed from queue {queue}. {current}/{required} agents active.",
}

var expiredMessages = []string{
	"{player} had to dash! Their available time window closed. Removed from {queue} queue. {current}/{required} players remaining.",
	"Time's up for {player}! Their availability period ended, so they've left the {queue} queue. {current}/{required} remain.",
	"Agent {player} has been recalled from the {queue} mission - time availability expired! {current}/{required} operatives remain.",
	"{player}'s time window has closed. They've been whisked away from the {queue} queue! Down to {current}/{required}.",
	"The clock strikes the hour, and {player} must depart the {queue} queue! {current}/{required} players now.",
}

func renderTemplate(template, player, sizeClass string, current, required int) string {
	return strings.NewReplacer(
		"{player}", player,
		"{queue}", sizeClass,
		"{current}", fmt.Sprintf("%d", current),
		"{required}", fmt.Sprintf("%d", required),
		"{remaining}", fmt.Sprintf("%d", required-current),
	).Replace(template)
}

// JoinAnnouncement renders a join message for the channel.
func JoinAnnouncement(player, sizeClass string, current, required int) string {
	return renderTemplate(joinMessages[rand.Intn(len(joinMessages))], player, sizeClass, current, required)
}

// LeaveAnnouncement renders a voluntary-leave message.
func LeaveAnnouncement(player, sizeClass string, current, required int) string {
	return renderTemplate(leaveMessages[rand.Intn(len(leaveMessages))], player, sizeClass, current, required)
}

// ExpiredAnnouncement renders an availability-expired eviction message.
func ExpiredAnnouncement(player, sizeClass string, current, required int) string {
	return renderTemplate(expiredMessages[rand.Intn(len(expiredMessages))], player, sizeClass, current, required)
}

// RoundOpenAnnouncement renders the channel notice that a pool has filled.
func RoundOpenAnnouncement(sizeClass string, memberNames []string) string {
	return fmt.Sprintf(
		"Session ready: %s! Please confirm you are still available. You have 2 minutes.\nPlayers: %s",
		sizeClass, strings.Join(memberNames, ", "),
	)
}

// SessionReadyAnnouncement renders the all-confirmed notice.
func SessionReadyAnnouncement(sizeClass string, memberNames []string) string {
	return fmt.Sprintf(
		"%s session confirmed! All players are in - join the lobby now.\nPlayers: %s",
		sizeClass, strings.Join(memberNames, ", "),
	)
}

// SessionCancelledAnnouncement renders the insufficient-confirmations notice.
func SessionCancelledAnnouncement(sizeClass string, confirmed, declined, silent int) string {
	return fmt.Sprintf(
		"%s session cancelled. Not all players confirmed: %d confirmed, %d declined, %d did not respond.",
		sizeClass, confirmed, declined, silent,
	)
}
