package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/anyhost/protover/internal/common"
	"github.com/anyhost/protover/internal/protocol"
)

var (
	peerProtocols string
	peerPlatform  string
	peerClientID  string
	required      string
)

var negotiateCmd = &cobra.Command{
	Use:   "negotiate [handshake.json]",
	Short: "Check a peer handshake against the required protocols",
	Long: `negotiate reads a handshake request, either a bare JSON request or a
"handshake" envelope, from the named file or standard input. The request may
instead be given with --protocols or --platform. The response envelope is
written to standard output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNegotiate,
}

func init() {
	negotiateCmd.Flags().StringVar(&peerProtocols, "protocols", "", "Protocol list the peer advertises")
	negotiateCmd.Flags().StringVar(&peerPlatform, "platform", "", "Software version of a peer that advertises no list")
	negotiateCmd.Flags().StringVar(&peerClientID, "client-id", "", "Peer identifier for logs")
	negotiateCmd.Flags().StringVar(&required, "required", "", "Required protocols (overrides the configuration)")
}

func runNegotiate(cmd *cobra.Command, args []string) error {
	req, requestID, err := loadHandshake(cmd, args)
	if err != nil {
		errMsg := &protocol.ErrorMessage{
			Code:    protocol.ErrorToCode(err),
			Message: "unreadable handshake",
			Details: err.Error(),
		}
		if werr := writeEnvelope(cmd.OutOrStdout(), protocol.MessageTypeError, common.GenerateRequestID(), errMsg); werr != nil {
			return werr
		}
		return err
	}
	if req.ClientID == "" {
		req.ClientID = common.GenerateClientID()
	}
	if requestID == "" {
		requestID = common.GenerateRequestID()
	}

	requiredList := cfg.Negotiation.RequiredProtocols
	if cmd.Flags().Changed("required") {
		requiredList = required
	}
	negotiator, err := protocol.NewNegotiator(requiredList, nil)
	if err != nil {
		return err
	}

	resp, negErr := negotiator.Negotiate(req)
	if negErr != nil {
		logger.Warn("handshake rejected",
			slog.String("client_id", req.ClientID),
			slog.String("code", resp.ErrorCode),
			slog.Any("error", negErr))
	} else {
		logger.Info("handshake accepted",
			slog.String("client_id", req.ClientID),
			slog.String("protocols", resp.Protocols),
			slog.String("unsupported", resp.Unsupported))
	}

	if err := writeEnvelope(cmd.OutOrStdout(), protocol.MessageTypeHandshakeResponse, requestID, resp); err != nil {
		return err
	}
	return negErr
}

func writeEnvelope(w io.Writer, msgType protocol.MessageType, requestID string, payload interface{}) error {
	env, err := protocol.NewEnvelope(msgType, requestID, payload)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func loadHandshake(cmd *cobra.Command, args []string) (*protocol.HandshakeRequest, string, error) {
	if peerProtocols != "" || peerPlatform != "" {
		return &protocol.HandshakeRequest{
			Version:   protocol.ProtocolVersion,
			ClientID:  peerClientID,
			Protocols: peerProtocols,
			Platform:  peerPlatform,
		}, "", nil
	}

	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read handshake: %w", err)
	}
	return decodeHandshake(data)
}

// decodeHandshake accepts a handshake envelope or a bare request.
func decodeHandshake(data []byte) (*protocol.HandshakeRequest, string, error) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, "", fmt.Errorf("%w: %v", protocol.ErrInvalidMessage, err)
	}

	var req protocol.HandshakeRequest
	switch env.Type {
	case "":
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, "", fmt.Errorf("%w: %v", protocol.ErrInvalidMessage, err)
		}
	case protocol.MessageTypeHandshake:
		if err := env.DecodePayload(&req); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", fmt.Errorf("%w: unexpected message type %q", protocol.ErrInvalidMessage, env.Type)
	}
	return &req, env.RequestID, nil
}
