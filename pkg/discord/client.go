// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event handling.
package discord

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// discordgo.Logger is a package-level function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		case discordgo.LogDebug:
			logger.Debug(msg, "DiscordGo")
		default:
			logger.Info(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Platform       *Platform
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// ClientOptions configures NewClient
type ClientOptions struct {
	Prefix string
	Lock   *moderation.LockState
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of registered names, aliases included
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// List returns each command once, sorted by category then name
func (cc *CommandCollection) List() []*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	seen := make(map[*Command]bool)
	result := make([]*Command, 0, len(cc.commands))
	for _, cmd := range cc.commands {
		if seen[cmd] {
			continue
		}
		seen[cmd] = true
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string, opts ClientOptions) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token, opts)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string, opts ClientOptions) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsMessageContent

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	if opts.Lock == nil {
		opts.Lock = &moderation.LockState{}
	}
	if opts.Prefix == "" {
		opts.Prefix = "?"
	}

	c := &ExtendedClient{
		Session:  session,
		Commands: NewCommandCollection(),
		Platform: NewPlatform(session),
	}

	c.CommandHandler = NewCommandHandler(c, opts.Prefix, opts.Lock)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start registers the core handlers and opens the gateway connection
func (c *ExtendedClient) Start() error {
	logger.System(fmt.Sprintf("%d comandos cargados.", len(c.Commands.List())), "Client")

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot conectado como: "+r.User.Username, "Client")
	})

	c.Session.AddHandler(c.CommandHandler.HandleMessage)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// BotID returns the bot's user ID once connected
func (c *ExtendedClient) BotID() string {
	if c.Session == nil || c.Session.State == nil || c.Session.State.User == nil {
		return ""
	}
	return c.Session.State.User.ID
}

// Prefix returns the command prefix
func (c *ExtendedClient) Prefix() string {
	return c.CommandHandler.prefix
}

// Lock returns the shared lock state
func (c *ExtendedClient) Lock() *moderation.LockState {
	return c.CommandHandler.lock
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}
