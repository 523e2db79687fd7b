package ir3

// Program is the whole compilation unit after sema has resolved names,
// assigned mangled symbols, and lowered every method body to basic-block
// IR3.
type Program struct {
	Classes []ClassDefn
	Funcs   []*FuncDefn
}

func (p *Program) String() string {
	s := ""
	for _, c := range p.Classes {
		s += "class " + c.Name + " {\n"
		for _, f := range c.Fields {
			s += "    " + f.String() + ";\n"
		}
		s += "}\n"
	}
	for _, fn := range p.Funcs {
		s += fn.String()
	}
	return s
}

// ClassByName looks up a class's field layout by name.
func (p *Program) ClassByName(name string) *ClassDefn {
	for i := range p.Classes {
		if p.Classes[i].Name == name {
			return &p.Classes[i]
		}
	}
	return nil
}

// FuncByMangledName looks up a function by its already-mangled symbol.
func (p *Program) FuncByMangledName(name string) *FuncDefn {
	for _, fn := range p.Funcs {
		if fn.MangledName == name {
			return fn
		}
	}
	return nil
}
