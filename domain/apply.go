package domain

import "fmt"

// Apply routes one command to the matching board operation. Row commands
// address their row by identity when Row is set and by store index otherwise;
// a row that cannot be found makes the command a no-op.
func (b *Board) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdSetSearch:
		b.SetSearchTerm(cmd.Term)
		return nil
	case CmdExpandAll:
		b.ExpandAll()
		return nil
	case CmdCollapseAll:
		b.CollapseAll()
		return nil
	case CmdDeleteAllMenus:
		b.DeleteAllMenus()
		return nil
	}

	section, err := ParseSection(cmd.Section)
	if err != nil {
		if isSectionCommand(cmd.Type) {
			return err
		}
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	ref := cmd.rowRef()
	switch cmd.Type {
	case CmdAddRow:
		_, err = b.AddRow(section)
	case CmdRemoveRow:
		_, err = b.removeRow(section, ref)
	case CmdSetCategories:
		_, err = b.setCategories(section, ref, cmd.Categories)
	case CmdToggleApplyAll:
		_, err = b.toggleApplyAll(section, ref)
	case CmdSetApplyAll:
		_, err = b.setApplyAll(section, ref, cmd.On)
	case CmdSetDay:
		_, err = b.setDay(section, ref, cmd.Day, cmd.Options)
	case CmdClearDay:
		_, err = b.clearDay(section, ref, cmd.Day)
	case CmdMoveRow:
		_, err = b.moveRow(section, ref, cmd.To)
	case CmdExpand:
		err = b.Expand(section)
	case CmdCollapse:
		err = b.Collapse(section)
	case CmdDeleteAll:
		err = b.DeleteAll(section)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return err
}

// ApplyAll applies cmds in order and stops at the first failure. It returns
// the number of commands applied.
func (b *Board) ApplyAll(cmds []Command) (int, error) {
	for i, cmd := range cmds {
		if err := b.Apply(cmd); err != nil {
			return i, &CommandError{Index: i, Type: cmd.Type, Err: err}
		}
	}
	return len(cmds), nil
}

func isSectionCommand(t CommandType) bool {
	switch t {
	case CmdAddRow, CmdRemoveRow, CmdSetCategories, CmdToggleApplyAll, CmdSetApplyAll,
		CmdSetDay, CmdClearDay, CmdMoveRow, CmdExpand, CmdCollapse, CmdDeleteAll:
		return true
	}
	return false
}
