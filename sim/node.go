package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Node is an opaque handle that applications are installed on. The core
// never inspects a node beyond using its name as an identity for endpoint
// binding.
type Node struct {
	name string
}

// NewNode creates a new Node.
func NewNode(name string) *Node {
	return &Node{name: name}
}

// Name returns the name of the node.
func (n *Node) Name() string {
	return n.name
}

// Endpoint derives an endpoint address on the node, in the form
// "NodeName.PortName".
func (n *Node) Endpoint(port string) EndpointAddress {
	return EndpointAddress(n.name + "." + port)
}
