package pluginannotator

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"condition-ner/internal/core/types"
	"condition-ner/plugin/shared"

	"github.com/hashicorp/go-plugin"
)

// PluginAnnotator runs an annotator in a separate process. Calls are
// serialized since a single RPC connection is shared.
type PluginAnnotator struct {
	mu        sync.Mutex
	client    *plugin.Client
	annotator shared.Annotator
}

// Load starts the plugin binary given by command (split on whitespace).
func Load(command string) (*PluginAnnotator, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, fmt.Errorf("empty plugin command")
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  shared.Handshake,
		Plugins:          shared.PluginMap,
		Cmd:              exec.Command(args[0], args[1:]...),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("error establishing RPC connection: %w", err)
	}

	annotator, err := Dispense(rpcClient)
	if err != nil {
		client.Kill()
		return nil, err
	}

	return &PluginAnnotator{client: client, annotator: annotator}, nil
}

func Dispense(rpcClient plugin.ClientProtocol) (shared.Annotator, error) {
	raw, err := rpcClient.Dispense(shared.AnnotatorPluginName)
	if err != nil {
		return nil, fmt.Errorf("error dispensing '%s': %w", shared.AnnotatorPluginName, err)
	}

	annotator, ok := raw.(shared.Annotator)
	if !ok {
		return nil, fmt.Errorf("dispensed interface '%s' is not of expected type shared.Annotator (actual type: %T)", shared.AnnotatorPluginName, raw)
	}
	return annotator, nil
}

func (p *PluginAnnotator) Annotate(ctx context.Context, text string) (*types.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.annotator == nil {
		return nil, fmt.Errorf("plugin annotator has been released")
	}
	return p.annotator.Annotate(text)
}

func (p *PluginAnnotator) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return
	}
	p.client.Kill()
	p.client = nil
	p.annotator = nil
}
