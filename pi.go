package xenon

// ProcessingInstruction is a <?target data?> node.
type ProcessingInstruction struct {
	docnode
	target string
	data   string
}

func newProcessingInstruction(target, data string) *ProcessingInstruction {
	pi := &ProcessingInstruction{target: target, data: data}
	pi.typ = ProcessingInstructionNode
	return pi
}

func (p *ProcessingInstruction) Target() string {
	return p.target
}

func (p *ProcessingInstruction) Data() string {
	return p.data
}

func (p *ProcessingInstruction) Content() []byte {
	return []byte(p.data)
}
