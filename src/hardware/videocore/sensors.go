package videocore

import (
	"encoding/binary"

	"github.com/juju/errors"
)

// temperature sensor id, the SoC only has the one
const socTemperatureID = 0

// ReadSoCTemperature returns the SoC temperature in thousandths of a degree
// Celsius.
func ReadSoCTemperature(c *Client) (uint32, error) {
	req := make([]byte, 4)
	binary.LittleEndian.PutUint32(req, socTemperatureID)
	resp, err := c.Execute(MailboxTagGetTemperature, req, 8)
	if err != nil {
		return 0, errors.Annotate(err, "soc temperature")
	}
	return binary.LittleEndian.Uint32(resp[4:]), nil
}

// ReadMaxTemperature is the temperature at which the firmware starts to
// throttle, in thousandths of a degree.
func ReadMaxTemperature(c *Client) (uint32, error) {
	v, err := c.Call(MailboxTagGetMaxTemperature, 2, socTemperatureID)
	if err != nil {
		return 0, errors.Annotate(err, "max temperature")
	}
	return v[1], nil
}

// PhysicalDisplaySize asks the firmware what the display is currently set to.
func PhysicalDisplaySize(c *Client) (uint32, uint32, error) {
	v, err := c.Call(MailboxTagGetPhysicalWidthHeight, 2)
	if err != nil {
		return 0, 0, errors.Trace(err)
	}
	return v[0], v[1], nil
}

func BoardRevision(c *Client) (uint32, error) {
	v, err := c.Call(MailboxTagBoardRevision, 1)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return v[0], nil
}

func FirmwareVersion(c *Client) (uint32, error) {
	v, err := c.Call(MailboxTagFirmwareVersion, 1)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return v[0], nil
}

// GetARMMemoryAndBase returns base and size of the memory split given to the ARM.
func GetARMMemoryAndBase(c *Client) (uint32, uint32, error) {
	v, err := c.Call(MailboxTagGetARMMemory, 2)
	if err != nil {
		return 0, 0, errors.Trace(err)
	}
	return v[0], v[1], nil
}

// GetVCMemoryAndBase returns base and size of the memory kept by the VideoCore.
func GetVCMemoryAndBase(c *Client) (uint32, uint32, error) {
	v, err := c.Call(MailboxTagGetVCMemory, 2)
	if err != nil {
		return 0, 0, errors.Trace(err)
	}
	return v[0], v[1], nil
}
