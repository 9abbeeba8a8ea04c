package types

// Peripherals is the full capability set of one target.
type Peripherals struct {
	GPIO  GPIO
	USART USART
	SPI   SPI
	I2C   I2C
}
