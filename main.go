// Firmware demo: drives each peripheral once through the flat hal surface
// and prints what happened, then idles with a heartbeat.
package main

import (
	"time"

	"halcode-go/errcode"
	"halcode-go/hal"
	"halcode-go/types"
	"halcode-go/x/conv"
)

func main() {
	println("boot", hal.Target)

	// GPIO: drive pin 2 high, read it back, drop it if it reads high.
	if pin, err := types.NewPin(2); err == nil {
		check("gpio.configure", hal.ConfigurePin(pin, types.PinOutput))
		check("gpio.write", hal.WritePin(pin, types.High))
		v, err := hal.ReadPin(pin)
		report("gpio.read", uint8(v), err)
		if v == types.High {
			check("gpio.write", hal.WritePin(pin, types.Low))
		}
	}

	// USART: send '1', echo whatever comes back.
	check("usart.init", hal.USARTInit(9600))
	check("usart.write", hal.USARTWrite('1'))
	if b, err := hal.USARTRead(); err == nil {
		check("usart.write", hal.USARTWrite(b))
		report("usart.read", b, nil)
	} else {
		report("usart.read", 0, err)
	}

	// SPI master, then slave.
	check("spi.master", hal.SPIInitMaster())
	check("spi.write", hal.SPIWrite(0x55))
	b, err := hal.SPIRead()
	report("spi.read", b, err)
	b, err = hal.SPITransfer(0x42)
	report("spi.transfer", b, err)

	check("spi.slave", hal.SPIInitSlave())
	b, err = hal.SPITransfer(0x00)
	report("spi.transfer", b, err)

	// I2C at 100 kHz against a device at 0x42.
	check("i2c.init", hal.I2CInit(100_000))
	check("i2c.write", hal.I2CWrite(0x42, []byte{0x01, 0x02, 0x03}))
	var buf [3]byte
	last, err := hal.I2CRead(0x42, buf[:])
	report("i2c.read", last, err)

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	var n uint32
	for range tick.C {
		n++
		println(string(conv.AppendUint([]byte("heartbeat "), n)))
	}
}

func check(op string, err error) {
	if err != nil {
		report(op, 0, err)
	}
}

// report prints "op 0xNN" or "op err=<code>".
func report(op string, v uint8, err error) {
	line := make([]byte, 0, 48)
	line = append(line, op...)
	line = append(line, ' ')
	if err != nil {
		line = append(line, "err="...)
		line = append(line, errcode.Of(err)...)
		if errcode.Retryable(err) {
			line = append(line, " (retryable)"...)
		}
	} else {
		line = append(line, '0', 'x')
		line = conv.AppendHex(line, uint32(v), 2)
	}
	println(string(line))
}
