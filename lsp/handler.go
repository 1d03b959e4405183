package lsp

import (
	"context"
	"encoding/json"

	"codemux/lspmux/logger"

	"github.com/myleshyson/lsprotocol-go/protocol"
	"github.com/sourcegraph/jsonrpc2"
)

// clientHandler handles incoming messages from the language server
type clientHandler struct {
	client *Client
}

func (h *clientHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	switch req.Method {
	case "textDocument/publishDiagnostics":
		if req.Params == nil {
			return
		}

		var params protocol.PublishDiagnosticsParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			logger.Debugw("malformed publishDiagnostics", "server", h.client.name, "error", err)
			return
		}

		h.client.publishDiagnostics(string(params.Uri), params.Diagnostics)

	case "window/logMessage", "window/showMessage":
		if req.Params == nil {
			return
		}

		var params struct {
			Type    int    `json:"type"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(*req.Params, &params); err == nil {
			logger.Debugw("peer message", "server", h.client.name, "type", params.Type, "message", params.Message)
		}

	case "client/registerCapability", "client/unregisterCapability":
		// Dynamic registration is accepted and ignored.
		if err := conn.Reply(ctx, req.ID, nil); err != nil {
			logger.Debugw("failed to reply to capability registration", "server", h.client.name, "error", err)
		}

	case "workspace/configuration":
		// No configuration to offer; reply with one null per requested item.
		items := 0
		if req.Params != nil {
			var params struct {
				Items []json.RawMessage `json:"items"`
			}
			if err := json.Unmarshal(*req.Params, &params); err == nil {
				items = len(params.Items)
			}
		}
		if err := conn.Reply(ctx, req.ID, make([]any, items)); err != nil {
			logger.Debugw("failed to reply to configuration", "server", h.client.name, "error", err)
		}

	case "workspace/applyEdit":
		// The bridge never applies server-initiated edits.
		result := map[string]any{"applied": false, "failureReason": "client does not apply edits"}
		if err := conn.Reply(ctx, req.ID, result); err != nil {
			logger.Debugw("failed to reply to applyEdit", "server", h.client.name, "error", err)
		}

	case "window/workDoneProgress/create":
		if err := conn.Reply(ctx, req.ID, nil); err != nil {
			logger.Debugw("failed to reply to workDoneProgress create", "server", h.client.name, "error", err)
		}

	case "$/progress", "telemetry/event":
		// Ignored.

	default:
		if req.Notif {
			logger.Debugw("unhandled notification", "server", h.client.name, "method", req.Method)
			return
		}

		rpcErr := &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: "method not found",
		}
		if replyErr := conn.ReplyWithError(ctx, req.ID, rpcErr); replyErr != nil {
			logger.Debugw("failed to reply with error", "server", h.client.name, "error", replyErr)
		}
	}
}
