package handlers

import (
	"encoding/json"

	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/commands"
	"github.com/lazharichir/holdem/server/connection"
	serverevents "github.com/lazharichir/holdem/server/events"
	"github.com/lazharichir/holdem/table"
	"github.com/pkg/errors"
)

var (
	ErrUnknownCommand = errors.New("unknown command type")
	ErrPlayerMismatch = errors.New("connection is bound to another player")
)

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	registry *table.Registry
	connMgr  *connection.Manager
}

// NewCommandRouter creates a new command router
func NewCommandRouter(registry *table.Registry, connMgr *connection.Manager) *CommandRouter {
	return &CommandRouter{
		registry: registry,
		connMgr:  connMgr,
	}
}

func decode[T commands.Command](message []byte) (T, error) {
	var cmd T
	if err := json.Unmarshal(message, &cmd); err != nil {
		return cmd, errors.Wrapf(err, "decoding %s", cmd.Name())
	}
	return cmd, nil
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return errors.Wrap(err, "decoding command")
	}

	switch baseCmd.Name {
	case commands.JoinTable{}.Name():
		cmd, err := decode[commands.JoinTable](message)
		if err != nil {
			return err
		}
		return r.handleJoinTable(client, cmd)

	case commands.LeaveTable{}.Name():
		cmd, err := decode[commands.LeaveTable](message)
		if err != nil {
			return err
		}
		return r.handleLeaveTable(client, cmd)

	case commands.SubmitAction{}.Name():
		cmd, err := decode[commands.SubmitAction](message)
		if err != nil {
			return err
		}
		return r.handleSubmitAction(client, cmd)

	case commands.ToggleSitOut{}.Name():
		cmd, err := decode[commands.ToggleSitOut](message)
		if err != nil {
			return err
		}
		return r.withTable(client, cmd.PlayerID, cmd.TableID, func(t *domain.Table) error {
			return t.SetSitOut(cmd.PlayerID, cmd.SitOut)
		})

	case commands.RequestRebuy{}.Name():
		cmd, err := decode[commands.RequestRebuy](message)
		if err != nil {
			return err
		}
		return r.withTable(client, cmd.PlayerID, cmd.TableID, func(t *domain.Table) error {
			return t.RequestRebuy(cmd.PlayerID)
		})

	case commands.VoteToContinue{}.Name():
		cmd, err := decode[commands.VoteToContinue](message)
		if err != nil {
			return err
		}
		return r.withTable(client, cmd.PlayerID, cmd.TableID, func(t *domain.Table) error {
			return t.Vote(cmd.PlayerID)
		})

	case commands.RequestView{}.Name():
		cmd, err := decode[commands.RequestView](message)
		if err != nil {
			return err
		}
		return r.handleRequestView(client, cmd)

	default:
		return errors.Wrapf(ErrUnknownCommand, "%q", baseCmd.Name)
	}
}

// bind ties the connection to the player named in a command
func (r *CommandRouter) bind(client *connection.Client, playerID string) error {
	if playerID == "" {
		return &domain.ValidationError{Field: "playerId", Message: "is required"}
	}
	if !r.connMgr.BindPlayer(client.ID, playerID) {
		return ErrPlayerMismatch
	}
	return nil
}

func (r *CommandRouter) withTable(client *connection.Client, playerID, tableID string, fn func(*domain.Table) error) error {
	if err := r.bind(client, playerID); err != nil {
		return err
	}
	loop, err := r.registry.Get(tableID)
	if err != nil {
		return err
	}
	return loop.Do(fn)
}

func (r *CommandRouter) handleJoinTable(client *connection.Client, cmd commands.JoinTable) error {
	if err := r.bind(client, cmd.PlayerID); err != nil {
		return err
	}
	loop, err := r.registry.Get(cmd.TableID)
	if err != nil {
		return err
	}

	name := cmd.PlayerName
	if name == "" {
		name = cmd.PlayerID
	}

	// subscribe first so that the join itself is delivered
	r.connMgr.Subscribe(client.ID, cmd.TableID)
	err = loop.Do(func(t *domain.Table) error {
		_, err := t.Join(cmd.PlayerID, name)
		return err
	})
	if err != nil {
		r.connMgr.Unsubscribe(client.ID, cmd.TableID)
		return err
	}
	return nil
}

func (r *CommandRouter) handleLeaveTable(client *connection.Client, cmd commands.LeaveTable) error {
	err := r.withTable(client, cmd.PlayerID, cmd.TableID, func(t *domain.Table) error {
		return t.Leave(cmd.PlayerID)
	})
	if err != nil {
		return err
	}
	r.connMgr.Unsubscribe(client.ID, cmd.TableID)
	return nil
}

func (r *CommandRouter) handleSubmitAction(client *connection.Client, cmd commands.SubmitAction) error {
	if err := r.bind(client, cmd.PlayerID); err != nil {
		return err
	}
	action, err := domain.ParseAction(cmd.Action, cmd.Amount)
	if err != nil {
		return err
	}
	return r.registry.SubmitAction(cmd.TableID, cmd.PlayerID, action)
}

func (r *CommandRouter) handleRequestView(client *connection.Client, cmd commands.RequestView) error {
	loop, err := r.registry.Get(cmd.TableID)
	if err != nil {
		return err
	}

	var view domain.HandView
	loop.View(func(t *domain.Table) {
		view = t.BuildPlayerView(r.connMgr.PlayerOf(client.ID))
	})

	data, err := serverevents.Encode(serverevents.ViewName, view)
	if err != nil {
		return err
	}
	r.connMgr.SendToClient(client.ID, data)
	return nil
}
