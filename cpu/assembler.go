// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = func() map[string]string {
	equ := maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return equ
}()

// Assembler is a single pass assembler for the LS-8 system.
//
// Each line of input is one of:
//   - a comment, starting with '#', or blank;
//   - one or more 8 digit binary byte tokens, '10000010';
//   - a mnemonic and its operands, 'LDI R0,8';
//   - a '.equ NAME VALUE' or '.byte VALUE...' directive.
//
// Any line may start with one or more 'LABEL:' definitions, and any
// value may be a compile-time $(...) expression.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Lenient bool     // If set, malformed lines are skipped instead of rejected.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reBinary = regexp.MustCompile(`^[01]+$`)
	reIdent  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reParen  = regexp.MustCompile(`\$\([^\$]*\)`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// byteOf returns the value of a word as a byte.
// Negative values down to -128 are stored as two's complement.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v < -128 || v > 0xff {
		err = ErrValueRange
		return
	}

	value = uint8(v)
	return
}

// registerOf returns the register index of a word, 'R0' through 'R7'.
func (asm *Assembler) registerOf(word string) (reg uint8, err error) {
	if len(word) != 2 || (word[0] != 'R' && word[0] != 'r') || word[1] < '0' || word[1] > '7' {
		err = ErrRegisterInvalid
		return
	}

	reg = word[1] - '0'
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// currentAddress gets the address of the next assembled byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + len(last.Bytes)
}

// parseLine expands a line of text into words, handling expressions,
// equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reIdent.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// Operands may be equates; the mnemonic itself is never replaced.
	for n := 1; n < len(words); n++ {
		equate, ok := asm.Equate[words[n]]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, "#", 2)
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil && asm.Lenient && isMalformed(err) {
			if asm.Verbose {
				log.Printf("%v: skipped: %v", lineno, err)
			}
			err = nil
		}
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		op.Bytes[op.LinkIndex] = uint8(address)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// isMalformed returns true for errors from lines that are not recognizable
// as an instruction or directive.
func isMalformed(err error) bool {
	switch err.(type) {
	case ErrParseToken:
		return true
	}
	return err == ErrInstructionInvalid
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []uint8
	var label string
	var index int

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		opcode := Opcode{
			LineNo:    lineno,
			Address:   asm.currentAddress(),
			Words:     initial_words,
			Bytes:     data,
			LinkLabel: label,
			LinkIndex: index,
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Raw binary bytes.
	if reBinary.MatchString(words[0]) {
		for _, word := range words {
			var v uint64
			v, err = strconv.ParseUint(word, 2, 8)
			if err != nil || !reBinary.MatchString(word) {
				err = ErrParseToken(word)
				return
			}
			data = append(data, uint8(v))
		}
		return
	}

	if words[0] == ".byte" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var v uint8
			v, err = asm.byteOf(word)
			if err != nil {
				return
			}
			data = append(data, v)
		}
		return
	}

	code, ok := LookupCode(strings.ToUpper(words[0]))
	if !ok {
		if reIdent.MatchString(words[0]) {
			err = ErrInstructionInvalid
		} else {
			err = ErrParseToken(words[0])
		}
		return
	}

	args := words[1:]
	kinds := code.Args()
	if len(args) > len(kinds) {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) < len(kinds) {
		err = ErrOpcodeValueMissing
		return
	}

	var operands [2]uint8
	for n, kind := range kinds {
		word := args[n]
		switch kind {
		case ARG_REG:
			operands[n], err = asm.registerOf(word)
		case ARG_IMM:
			operands[n], err = asm.byteOf(word)
			if _, is_num := err.(ErrParseNumber); is_num && reIdent.MatchString(word) {
				// Linked after the whole program is parsed.
				err = nil
				label = word
				index = 1 + n
			}
		}
		if err != nil {
			return
		}
	}

	data = MakeInstruction(code, operands[:]...).Bytes()

	return
}
