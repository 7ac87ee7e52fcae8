package shared

import (
	"net/rpc"

	"condition-ner/internal/core/types"
)

// RPCClient is an implementation of Annotator that talks over RPC.
type RPCClient struct{ client *rpc.Client }

func (m *RPCClient) Annotate(text string) (*types.Doc, error) {
	var resp types.Doc
	if err := m.client.Call("Plugin.Annotate", text, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Here is the RPC server that RPCClient talks to, conforming to
// the requirements of net/rpc
type RPCServer struct {
	// This is the real implementation
	Impl Annotator
}

func (m *RPCServer) Annotate(text string, resp *types.Doc) error {
	doc, err := m.Impl.Annotate(text)
	if err != nil {
		return err
	}
	*resp = *doc
	return nil
}
