package shared

import (
	"net/rpc"

	"condition-ner/internal/core/types"

	"github.com/hashicorp/go-plugin"
)

// Handshake is shared between the host and annotator plugins so that a
// plugin built for another host refuses to start.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CONDITION_NER_ANNOTATOR",
	MagicCookieValue: "c0nd1t10n-ner",
}

const AnnotatorPluginName = "annotator"

// Annotator is the interface exposed by a plugin process.
type Annotator interface {
	Annotate(text string) (*types.Doc, error)
}

// AnnotatorPlugin implements plugin.Plugin over net/rpc.
type AnnotatorPlugin struct {
	Impl Annotator
}

func (p *AnnotatorPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &RPCServer{Impl: p.Impl}, nil
}

func (p *AnnotatorPlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &RPCClient{client: c}, nil
}

var PluginMap = map[string]plugin.Plugin{
	AnnotatorPluginName: &AnnotatorPlugin{},
}

// Serve runs impl as a plugin. It blocks until the host disconnects.
func Serve(impl Annotator) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			AnnotatorPluginName: &AnnotatorPlugin{Impl: impl},
		},
	})
}
