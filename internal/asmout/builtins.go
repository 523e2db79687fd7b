package asmout

// builtinBodies holds the hand-written EABI assembly text for each
// runtime helper the instruction selector can request. Grounded on
// the calling convention each builtin follows; the instructions themselves
// are authored directly since no IR ever lowers into these bodies.
var builtinBodies = map[string]string{
	"__string_concat": `
.global __string_concat
.type __string_concat, %function
__string_concat:
	stmfd sp!, {v1, v2, v3, v4, v5, lr}
	mov v1, a1
	mov v2, a2

	cmp v1, #0
	moveq a1, v2
	beq .__string_concat_done

	cmp v2, #0
	moveq a1, v1
	beq .__string_concat_done

	ldr v3, [v1]
	ldr v4, [v2]
	add v5, v3, v4
	add a1, v5, #5
	mov a2, #1
	bl calloc(PLT)
	str v5, [a1]

	add a2, v1, #4
	mov a3, v3
	add a1, a1, #4
	stmfd sp!, {a1}
	bl memcpy(PLT)
	ldmfd sp!, {a1}

	add a2, v2, #4
	mov a3, v4
	add a1, a1, v3
	stmfd sp!, {a1}
	sub a1, a1, v3
	bl memcpy(PLT)
	ldmfd sp!, {a1}

.__string_concat_done:
	ldmfd sp!, {v1, v2, v3, v4, v5, pc}
`,

	"__string_compare": `
.global __string_compare
.type __string_compare, %function
__string_compare:
	stmfd sp!, {lr}
	cmp a1, a2
	moveq a1, #1
	beq .__string_compare_done

	cmp a1, #0
	moveq a1, #0
	beq .__string_compare_done

	cmp a2, #0
	moveq a1, #0
	beq .__string_compare_done

	add a1, a1, #4
	add a2, a2, #4
	bl strcmp(PLT)
	cmp a1, #0
	moveq a1, #1
	movne a1, #0

.__string_compare_done:
	ldmfd sp!, {pc}
`,

	"__divide_int": `
.global __divide_int
.type __divide_int, %function
__divide_int:
	stmfd sp!, {v1, v2, v3, lr}
	cmp a2, #0
	moveq a1, #0
	beq .__divide_int_done

	eor v3, a1, a2
	cmp a1, #0
	rsblt a1, a1, #0
	cmp a2, #0
	rsblt a2, a2, #0

	mov v1, a1
	mov v2, #0

.__divide_int_loop:
	cmp v1, a2
	blt .__divide_int_exit
	sub v1, v1, a2
	add v2, v2, #1
	b .__divide_int_loop

.__divide_int_exit:
	cmp v3, #0
	mov a1, v2
	rsblt a1, a1, #0

.__divide_int_done:
	ldmfd sp!, {v1, v2, v3, pc}
`,

	"__readln_int": `
.global __readln_int
.type __readln_int, %function
__readln_int:
	stmfd sp!, {v1, lr}
	sub sp, sp, #8
	mov v1, sp
	ldr a1, =.__readln_int_fmt
	mov a2, v1
	bl scanf(PLT)
	cmp a1, #1
	ldreq a1, [v1]
	movne a1, #0
	add sp, sp, #8
	ldmfd sp!, {v1, pc}
`,

	"__readln_bool": `
.global __readln_bool
.type __readln_bool, %function
__readln_bool:
	stmfd sp!, {v1, lr}
	sub sp, sp, #8
	mov v1, sp
	ldr a1, =.__readln_bool_fmt
	mov a2, v1
	bl scanf(PLT)
	ldrb v1, [v1]
	mov a1, #0
	cmp v1, #0x31
	moveq a1, #1
	cmp v1, #0x54
	moveq a1, #1
	cmp v1, #0x74
	moveq a1, #1
	add sp, sp, #8
	ldmfd sp!, {v1, pc}
`,

	"__readln_string": `
.global __readln_string
.type __readln_string, %function
__readln_string:
	stmfd sp!, {v1, v2, lr}
	mov a1, #261
	mov a2, #1
	bl calloc(PLT)
	mov v1, a1

	add a1, v1, #4
	mov a2, #256
	ldr a3, =stdin
	ldr a3, [a3]
	bl fgets(PLT)
	cmp a1, #0
	moveq v1, #0
	beq .__readln_string_done

	add a1, v1, #4
	bl strlen(PLT)
	mov v2, a1

	add a2, v1, #4
	add a2, a2, v2
	sub a2, a2, #1
	ldrb a3, [a2]
	cmp a3, #0x0a
	strbeq a3, [a2]
	subeq v2, v2, #1

	str v2, [v1]

.__readln_string_done:
	mov a1, v1
	ldmfd sp!, {v1, v2, pc}
`,
}

var builtinStringConstants = map[string][]struct {
	label string
	value string
}{
	"__readln_int":  {{label: ".__readln_int_fmt", value: " %d "}},
	"__readln_bool": {{label: ".__readln_bool_fmt", value: " %7s "}},
}
