package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bnema/multitab/internal/domain/entity"
	"github.com/bnema/multitab/internal/logging"
)

const maxCommandBody = 64 << 10

// Command is the body of POST /commands.
type Command struct {
	Name string `json:"command"`
	ID   string `json:"id,omitempty"`
	URL  string `json:"url,omitempty"`
}

// CommandResult is the reply to a command.
type CommandResult struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type commandHandler func(ctx context.Context, c Commands, cmd Command) (any, error)

func requireID(cmd Command) error {
	if cmd.ID == "" {
		return fmt.Errorf("%s: id is required", cmd.Name)
	}
	return nil
}

func tabCommand(fn func(Commands, context.Context, entity.TabID)) commandHandler {
	return func(ctx context.Context, c Commands, cmd Command) (any, error) {
		if err := requireID(cmd); err != nil {
			return nil, err
		}
		fn(c, ctx, entity.TabID(cmd.ID))
		return nil, nil
	}
}

func downloadCommand(fn func(Commands, context.Context, entity.DownloadID)) commandHandler {
	return func(ctx context.Context, c Commands, cmd Command) (any, error) {
		if err := requireID(cmd); err != nil {
			return nil, err
		}
		fn(c, ctx, entity.DownloadID(cmd.ID))
		return nil, nil
	}
}

var commandHandlers = map[string]commandHandler{
	"createTab": func(ctx context.Context, c Commands, cmd Command) (any, error) {
		id := c.CreateTab(ctx, cmd.URL)
		if id == "" {
			return nil, fmt.Errorf("createTab: no tab created")
		}
		return map[string]entity.TabID{"id": id}, nil
	},
	"navigate": func(ctx context.Context, c Commands, cmd Command) (any, error) {
		if err := requireID(cmd); err != nil {
			return nil, err
		}
		c.Navigate(ctx, entity.TabID(cmd.ID), cmd.URL)
		return nil, nil
	},
	"switchTab": tabCommand(Commands.SwitchTab),
	"closeTab":  tabCommand(Commands.CloseTab),
	"goBack":    tabCommand(Commands.GoBack),
	"goForward": tabCommand(Commands.GoForward),
	"reload":    tabCommand(Commands.Reload),
	"getAllTabs": func(ctx context.Context, c Commands, _ Command) (any, error) {
		return c.GetAllTabs(ctx), nil
	},
	"getDownloads": func(ctx context.Context, c Commands, _ Command) (any, error) {
		return c.GetDownloads(ctx), nil
	},
	"openDownload":   downloadCommand(Commands.OpenDownload),
	"showInFolder":   downloadCommand(Commands.ShowInFolder),
	"removeDownload": downloadCommand(Commands.RemoveDownload),
	"cancelDownload": downloadCommand(Commands.CancelDownload),
	"clearCompleted": func(ctx context.Context, c Commands, _ Command) (any, error) {
		c.ClearCompleted(ctx)
		return nil, nil
	},
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cmd Command
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBody))
	if err := dec.Decode(&cmd); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid command body: "+err.Error())
		return
	}

	handler, ok := commandHandlers[cmd.Name]
	if !ok {
		writeError(ctx, w, http.StatusNotFound, fmt.Sprintf("unknown command %q", cmd.Name))
		return
	}

	logging.FromContext(ctx).Debug().Str("command", cmd.Name).Str("id", cmd.ID).Msg("bridge command")

	data, err := handler(ctx, s.commands, cmd)
	if err != nil {
		writeJSON(ctx, w, http.StatusUnprocessableEntity, CommandResult{Error: err.Error()})
		return
	}
	writeJSON(ctx, w, http.StatusOK, CommandResult{OK: true, Data: data})
}
