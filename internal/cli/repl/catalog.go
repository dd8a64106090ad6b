package repl

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// CommandInfo describes one RCON server command.
type CommandInfo struct {
	Section     string `json:"section" yaml:"section"`
	Name        string `json:"name" yaml:"name"`
	Args        string `json:"args,omitempty" yaml:"args,omitempty"`
	Description string `json:"description" yaml:"description"`
	// Local commands are handled by the console and never sent.
	Local bool `json:"local,omitempty" yaml:"local,omitempty" table:"wide"`
}

// Usage returns the name followed by its argument synopsis.
func (c CommandInfo) Usage() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// Catalog sections in display order.
const (
	SectionGeneral       = "General"
	SectionServer        = "Server"
	SectionMaps          = "Maps"
	SectionPlayers       = "Players"
	SectionModeration    = "Moderation"
	SectionConfiguration = "Configuration"
	SectionExtra         = "Extra"
)

var sections = []string{
	SectionGeneral, SectionServer, SectionMaps, SectionPlayers,
	SectionModeration, SectionConfiguration, SectionExtra,
}

// catalog mirrors the server's command reference. PardonPermaPan is the
// server's own spelling.
var catalog = []CommandInfo{
	{SectionGeneral, "help", "[filter]", "List all commands", true},
	{SectionGeneral, "Login", "<password>", "Authorize the connection", false},
	{SectionGeneral, "RconPassword", "<old> <new>", "Change RCON password", false},

	{SectionServer, "Get Name", "", "Get server name", false},
	{SectionServer, "Get Slots", "", "Get current/max players", false},
	{SectionServer, "Get GameState", "", "Get match info", false},
	{SectionServer, "Get MaxQueuedPlayers", "", "Get max queue size", false},
	{SectionServer, "Get NumVipSlots", "", "Get VIP reserved slots", false},
	{SectionServer, "SetMaxQueuedPlayers", "<size>", "Set queue size (max 6)", false},
	{SectionServer, "SetNumVipSlots", "<amount>", "Set VIP slots", false},
	{SectionServer, "Say", "<message>", "Set welcome message", false},
	{SectionServer, "Broadcast", "<message>", "Broadcast message (empty to clear)", false},
	{SectionServer, "ShowLog", `<timespan> ["filter"]`, "Get logs from <timespan> minutes ago", false},

	{SectionMaps, "Get Map", "", "Get current map", false},
	{SectionMaps, "Get MapsForRotation", "", "List all available maps", false},
	{SectionMaps, "Get ObjectiveRow_[0-4]", "", "List objectives for row 0-4", false},
	{SectionMaps, "RotList", "", "List current rotation", false},
	{SectionMaps, "RotAdd", "<map> [after] [ordinal]", "Add map to rotation", false},
	{SectionMaps, "RotDel", "<map> [ordinal]", "Remove map from rotation", false},
	{SectionMaps, "Map", "<map> [ordinal]", "Switch to map", false},
	{SectionMaps, "GameLayout", "<obj0> ... <obj4>", "Restart with specific objectives", false},
	{SectionMaps, "QueryMapShuffle", "", "Check if shuffling is enabled", false},
	{SectionMaps, "ToggleMapShuffle", "", "Toggle map shuffling", false},
	{SectionMaps, "ListCurrentMapSequence", "", "List shuffled rotation", false},

	{SectionPlayers, "Get Players", "", "List player names", false},
	{SectionPlayers, "Get PlayerIds", "", "List names and UIDs", false},
	{SectionPlayers, "Get AdminIds", "", "List admins with roles", false},
	{SectionPlayers, "Get AdminGroups", "", "List available roles", false},
	{SectionPlayers, "Get VipIds", "", "List VIPs", false},
	{SectionPlayers, "PlayerInfo", "<name>", "Get player details", false},
	{SectionPlayers, "AdminAdd", `<"uid"> <"role"> ["name"]`, "Add admin", false},
	{SectionPlayers, "AdminDel", "<uid>", "Remove admin", false},
	{SectionPlayers, "VipAdd", `<"uid"> <"name">`, "Add VIP", false},
	{SectionPlayers, "VipDel", "<uid>", "Remove VIP", false},

	{SectionModeration, "Get TempBans", "", "List temp bans", false},
	{SectionModeration, "Get PermaBans", "", "List permanent bans", false},
	{SectionModeration, "Message", `<"player"> <"message">`, "Message a player", false},
	{SectionModeration, "Punish", `<"player"> ["reason"]`, "Kill a player", false},
	{SectionModeration, "SwitchTeamOnDeath", "<player>", "Switch team on death", false},
	{SectionModeration, "SwitchTeamNow", "<player>", "Switch team immediately", false},
	{SectionModeration, "Kick", `<"player"> ["reason"]`, "Kick a player", false},
	{SectionModeration, "TempBan", `<"uid"> [hours] ["reason"] ["admin"]`, "Temp ban", false},
	{SectionModeration, "PermaBan", `<"uid"> ["reason"] ["admin"]`, "Permanent ban", false},
	{SectionModeration, "PardonTempBan", "<ban_log>", "Remove temp ban", false},
	{SectionModeration, "PardonPermaPan", "<ban_log>", "Remove permanent ban (server spelling)", false},

	{SectionConfiguration, "Get Idletime", "", "Get idle kick time", false},
	{SectionConfiguration, "Get HighPing", "", "Get ping threshold", false},
	{SectionConfiguration, "Get TeamSwitchCooldown", "", "Get team switch cooldown", false},
	{SectionConfiguration, "Get AutoBalanceEnabled", "", "Check auto-balance status", false},
	{SectionConfiguration, "Get AutoBalanceThreshold", "", "Get balance threshold", false},
	{SectionConfiguration, "Get VoteKickEnabled", "", "Check vote kick status", false},
	{SectionConfiguration, "Get VoteKickThreshold", "", "Get vote kick threshold", false},
	{SectionConfiguration, "Get Profanity", "", "List censored words", false},
	{SectionConfiguration, "SetKickIdleTime", "<minutes>", "Set idle kick time", false},
	{SectionConfiguration, "SetHighPing", "<ms>", "Set ping threshold", false},
	{SectionConfiguration, "SetTeamSwitchCooldown", "<minutes>", "Set team switch cooldown", false},
	{SectionConfiguration, "SetAutoBalanceEnabled", "<on/off>", "Toggle auto-balance", false},
	{SectionConfiguration, "SetAutoBalanceThreshold", "<num>", "Set balance threshold", false},
	{SectionConfiguration, "SetVoteKickEnabled", "<on/off>", "Toggle vote kick", false},
	{SectionConfiguration, "SetVoteKickThreshold", "<pairs>", `Set vote kick thresholds (e.g., "0,5,25,10")`, false},
	{SectionConfiguration, "ResetVoteKickThreshold", "", "Reset vote kick thresholds", false},
	{SectionConfiguration, "BanProfanity", "<words>", "Add profanities (comma-separated)", false},
	{SectionConfiguration, "UnbanProfanity", "<words>", "Remove profanities (comma-separated)", false},

	{SectionExtra, "exit", "", "Close the connection and quit", true},
	{SectionExtra, "quit", "", "Same as exit", true},
}

// Commands returns a copy of the command reference.
func Commands() []CommandInfo {
	out := make([]CommandInfo, len(catalog))
	copy(out, catalog)
	return out
}

// FilterCommands returns the commands whose section, name or description
// contains filter, case-insensitively. An empty filter returns everything.
func FilterCommands(filter string) []CommandInfo {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return Commands()
	}

	var out []CommandInfo
	for _, c := range catalog {
		if strings.Contains(strings.ToLower(c.Name), filter) ||
			strings.Contains(strings.ToLower(c.Section), filter) ||
			strings.Contains(strings.ToLower(c.Description), filter) {
			out = append(out, c)
		}
	}
	return out
}

// WriteHelp prints the command reference grouped by section.
func WriteHelp(w io.Writer, filter string) error {
	cmds := FilterCommands(filter)
	if len(cmds) == 0 {
		_, err := fmt.Fprintf(w, "No commands match %q.\n", filter)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Available Commands (case-insensitive):")
	for _, section := range sections {
		first := true
		for _, c := range cmds {
			if c.Section != section {
				continue
			}
			if first {
				fmt.Fprintf(tw, "  %s:\n", section)
				first = false
			}
			fmt.Fprintf(tw, "    %s\t- %s\n", c.Usage(), c.Description)
		}
	}
	return tw.Flush()
}
