package trace

import "fmt"

// regNames mirrors the reference disassembler's RegName table
// (original_source/src/main.cpp), indexed by the same 0..7 register
// field encoding the ISA uses.
var regNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// mnemonics8 maps single-byte opcodes with no register/rp field baked
// into the format string.
var mnemonics8 = map[uint8]string{
	0x00: "NOP", 0x07: "RLC", 0x0F: "RRC", 0x17: "RAL", 0x1F: "RAR",
	0x27: "DAA", 0x2F: "CMA", 0x37: "STC", 0x3F: "CMC",
	0x76: "HLT", 0xE3: "XTHL", 0xEB: "XCHG", 0xE9: "PCHL", 0xF9: "SPHL",
	0xF3: "DI", 0xFB: "EI", 0xC9: "RET", 0xD9: "RET*",
	0x02: "STAX B", 0x12: "STAX D", 0x0A: "LDAX B", 0x1A: "LDAX D",
}

var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// Disassemble renders one instruction's mnemonic text from a
// Snapshot, in the spirit of original_source's _DUMP_DISASSEMBLY
// macro. It is best-effort formatting for a trace log, not a
// reassemblable syntax.
func Disassemble(s Snapshot) string {
	op := s.Opcode
	if m, ok := mnemonics8[op]; ok {
		return m
	}

	switch {
	case op&0xC0 == 0x40:
		dst, src := (op>>3)&7, op&7
		return fmt.Sprintf("MOV %s,%s", regNames[dst], regNames[src])
	case op&0xC7 == 0x04:
		return fmt.Sprintf("INR %s", regNames[(op>>3)&7])
	case op&0xC7 == 0x05:
		return fmt.Sprintf("DCR %s", regNames[(op>>3)&7])
	case op&0xC7 == 0x06:
		return fmt.Sprintf("MVI %s,%02X", regNames[(op>>3)&7], s.Op1)
	case op&0xC0 == 0x80:
		names := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
		return fmt.Sprintf("%s %s", names[(op>>3)&7], regNames[op&7])
	case op&0xCF == 0x01:
		return fmt.Sprintf("LXI %s,%04X", rpName(op), uint16(s.Op2)<<8|uint16(s.Op1))
	case op&0xCF == 0x03:
		return fmt.Sprintf("INX %s", rpName(op))
	case op&0xCF == 0x0B:
		return fmt.Sprintf("DCX %s", rpName(op))
	case op&0xCF == 0x09:
		return fmt.Sprintf("DAD %s", rpName(op))
	case op&0xC7 == 0xC2:
		return fmt.Sprintf("J%s %04X", condNames[(op>>3)&7], uint16(s.Op2)<<8|uint16(s.Op1))
	case op&0xC7 == 0xC4:
		return fmt.Sprintf("C%s %04X", condNames[(op>>3)&7], uint16(s.Op2)<<8|uint16(s.Op1))
	case op&0xC7 == 0xC0:
		return fmt.Sprintf("R%s", condNames[(op>>3)&7])
	case op&0xC7 == 0xC7:
		return fmt.Sprintf("RST %d", (op>>3)&7)
	case op == 0xC3 || op == 0xCB:
		return fmt.Sprintf("JMP %04X", uint16(s.Op2)<<8|uint16(s.Op1))
	case op == 0xCD || op == 0xDD || op == 0xED || op == 0xFD:
		return fmt.Sprintf("CALL %04X", uint16(s.Op2)<<8|uint16(s.Op1))
	case op == 0x22:
		return fmt.Sprintf("SHLD %04X", uint16(s.Op2)<<8|uint16(s.Op1))
	case op == 0x2A:
		return fmt.Sprintf("LHLD %04X", uint16(s.Op2)<<8|uint16(s.Op1))
	case op == 0x32:
		return fmt.Sprintf("STA %04X", uint16(s.Op2)<<8|uint16(s.Op1))
	case op == 0x3A:
		return fmt.Sprintf("LDA %04X", uint16(s.Op2)<<8|uint16(s.Op1))
	case op == 0xC6:
		return fmt.Sprintf("ADI %02X", s.Op1)
	case op == 0xCE:
		return fmt.Sprintf("ACI %02X", s.Op1)
	case op == 0xD6:
		return fmt.Sprintf("SUI %02X", s.Op1)
	case op == 0xDE:
		return fmt.Sprintf("SBI %02X", s.Op1)
	case op == 0xE6:
		return fmt.Sprintf("ANI %02X", s.Op1)
	case op == 0xEE:
		return fmt.Sprintf("XRI %02X", s.Op1)
	case op == 0xF6:
		return fmt.Sprintf("ORI %02X", s.Op1)
	case op == 0xFE:
		return fmt.Sprintf("CPI %02X", s.Op1)
	case op == 0xDB:
		return fmt.Sprintf("IN %02X", s.Op1)
	case op == 0xD3:
		return fmt.Sprintf("OUT %02X", s.Op1)
	case op&0xCF == 0xC1:
		return fmt.Sprintf("POP %s", pushPopName(op))
	case op&0xCF == 0xC5:
		return fmt.Sprintf("PUSH %s", pushPopName(op))
	}
	return fmt.Sprintf("DB %02X", op)
}

func rpName(op uint8) string {
	switch (op >> 4) & 3 {
	case 0:
		return "B"
	case 1:
		return "D"
	case 2:
		return "H"
	default:
		return "SP"
	}
}

func pushPopName(op uint8) string {
	switch (op >> 4) & 3 {
	case 0:
		return "B"
	case 1:
		return "D"
	case 2:
		return "H"
	default:
		return "PSW"
	}
}
