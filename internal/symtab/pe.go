package symtab

import (
	"debug/dwarf"
	"debug/pe"
	"io"

	"github.com/pkg/errors"
)

type peObj struct {
	f *pe.File
}

func openPE(r io.ReaderAt) (objFile, error) {
	f, err := pe.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &peObj{f: f}, nil
}

// symbols returns RVAs: COFF symbol values are section-relative, so each is
// rebased onto its section's virtual address.
func (o *peObj) symbols() (map[string]uint64, error) {
	out := make(map[string]uint64)
	for _, s := range o.f.Symbols {
		if s.SectionNumber <= 0 || int(s.SectionNumber) > len(o.f.Sections) {
			continue
		}
		sect := o.f.Sections[s.SectionNumber-1]
		out[s.Name] = uint64(sect.VirtualAddress) + uint64(s.Value)
	}
	return out, nil
}

func (o *peObj) bytesAt(vaddr uint64, n int) ([]byte, error) {
	for _, sect := range o.f.Sections {
		start := uint64(sect.VirtualAddress)
		if vaddr < start || vaddr+uint64(n) > start+uint64(sect.Size) {
			continue
		}
		buf := make([]byte, n)
		if _, err := sect.ReadAt(buf, int64(vaddr-start)); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return nil, errors.Errorf("no section covers %#x", vaddr)
}

func (o *peObj) mode() int {
	if o.f.Machine == pe.IMAGE_FILE_MACHINE_I386 {
		return 32
	}
	return 64
}

func (o *peObj) pie() bool {
	switch oh := o.f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		return oh.DllCharacteristics&pe.IMAGE_DLLCHARACTERISTICS_DYNAMIC_BASE != 0
	case *pe.OptionalHeader32:
		return oh.DllCharacteristics&pe.IMAGE_DLLCHARACTERISTICS_DYNAMIC_BASE != 0
	}
	return false
}

func (o *peObj) dwarfData() (*dwarf.Data, error) {
	return o.f.DWARF()
}

// pclntab is unavailable in PE images: the linker places the table inside
// .rdata with no section of its own, so locating it needs the COFF symbols,
// and when those exist the ordinary symbol lookup already succeeds.
func (o *peObj) pclntab() ([]byte, uint64, error) {
	return nil, 0, errors.New("pclntab not locatable in PE images")
}
