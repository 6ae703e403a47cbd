package videocore

// PropertyChannel is the mailbox channel of the property interface, the
// others are legacy or unused by us.
const PropertyChannel = 8

/* channels */
const MailboxChannelPower = 0
const MailboxChannelFramebuffer = 1
const MailboxChannelVUArt = 2
const MailboxChannelVCHIQ = 3
const MailboxChannelLEDs = 4
const MailboxChannelButtons = 5
const MailboxChannelTouch = 6
const MailboxChannelCount = 7
const MailboxChannelProperties = PropertyChannel

/* request/response codes */
const MailboxRequest = 0x0
const MailboxResponse = 0x80000000
const MailboxResponseError = 0x80000001

/*tags*/
const MailboxTagLast = 0x0
const MailboxTagFirmwareVersion = 0x00000001
const MailboxTagBoardModel = 0x00010001
const MailboxTagBoardRevision = 0x00010002
const MailboxTagMACAddress = 0x00010003
const MailboxTagSerial = 0x00010004
const MailboxTagGetARMMemory = 0x00010005
const MailboxTagGetVCMemory = 0x00010006
const MailboxTagGetClockRate = 0x00030002
const MailboxTagGetTemperature = 0x00030006
const MailboxTagGetMaxTemperature = 0x0003000A

/* framebuffer related */
const MailboxTagAllocateBuffer = 0x00040001
const MailboxTagGetPhysicalWidthHeight = 0x00040003
const MailboxTagGetPitch = 0x00040008
const MailboxTagSetPhysicalWidthHeight = 0x00048003
const MailboxTagSetVirtualWidthHeight = 0x00048004
const MailboxTagSetDepth = 0x00048005
const MailboxTagSetPixelOrder = 0x00048006
const MailboxTagSetVirtualOffset = 0x00048009
