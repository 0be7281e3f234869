package recovery

import (
	jujuerrors "github.com/juju/errors"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
	"github.com/zhukovaskychina/simpledb-go/storage/log"
)

func encodeCheckpoint() []byte {
	p := file.NewPage(4)
	_ = p.SetInt(0, int32(OpCheckpoint))
	return p.Contents()
}

func encodeTxOnly(op Op, txnum int) []byte {
	p := file.NewPage(8)
	_ = p.SetInt(0, int32(op))
	_ = p.SetInt(4, int32(txnum))
	return p.Contents()
}

// tpos is the offset at which the filename field starts in a
// SETINT/SETSTRING record: right after the tag and txnum.
const tpos = 8

func encodeSetInt(txnum int, block file.BlockID, offset int, oldVal int32) []byte {
	fpos := tpos
	bpos := fpos + file.MaxLength(len(block.Filename))
	opos := bpos + 4
	vpos := opos + 4
	size := vpos + 4

	p := file.NewPage(size)
	_ = p.SetInt(0, int32(OpSetInt))
	_ = p.SetInt(4, int32(txnum))
	_ = p.SetString(fpos, block.Filename)
	_ = p.SetInt(bpos, int32(block.Number))
	_ = p.SetInt(opos, int32(offset))
	_ = p.SetInt(vpos, oldVal)
	return p.Contents()
}

func encodeSetString(txnum int, block file.BlockID, offset int, oldVal string) []byte {
	fpos := tpos
	bpos := fpos + file.MaxLength(len(block.Filename))
	opos := bpos + 4
	vpos := opos + 4
	size := vpos + file.MaxLength(len(oldVal))

	p := file.NewPage(size)
	_ = p.SetInt(0, int32(OpSetString))
	_ = p.SetInt(4, int32(txnum))
	_ = p.SetString(fpos, block.Filename)
	_ = p.SetInt(bpos, int32(block.Number))
	_ = p.SetInt(opos, int32(offset))
	_ = p.SetString(vpos, oldVal)
	return p.Contents()
}

func writeStartRecord(lm *log.Mgr, txnum int) (int, error) {
	return lm.Append(encodeTxOnly(OpStart, txnum))
}

func writeCommitRecord(lm *log.Mgr, txnum int) (int, error) {
	return lm.Append(encodeTxOnly(OpCommit, txnum))
}

func writeRollbackRecord(lm *log.Mgr, txnum int) (int, error) {
	return lm.Append(encodeTxOnly(OpRollback, txnum))
}

func writeCheckpointRecord(lm *log.Mgr) (int, error) {
	return lm.Append(encodeCheckpoint())
}

func writeSetIntRecord(lm *log.Mgr, txnum int, block file.BlockID, offset int, oldVal int32) (int, error) {
	return lm.Append(encodeSetInt(txnum, block, offset, oldVal))
}

func writeSetStringRecord(lm *log.Mgr, txnum int, block file.BlockID, offset int, oldVal string) (int, error) {
	return lm.Append(encodeSetString(txnum, block, offset, oldVal))
}

// parseRecord decodes a raw log record read from the log into a
// typed Record. A tag outside 0..5 is corruption (spec.md §6).
func parseRecord(bytes []byte) (Record, error) {
	p := file.NewPageFromBytes(bytes)
	tagVal, err := p.GetInt(0)
	if err != nil {
		return nil, err
	}

	switch Op(tagVal) {
	case OpCheckpoint:
		return checkpointRecord{}, nil
	case OpStart:
		txnum, err := p.GetInt(4)
		if err != nil {
			return nil, err
		}
		return startRecord{txnum: int(txnum)}, nil
	case OpCommit:
		txnum, err := p.GetInt(4)
		if err != nil {
			return nil, err
		}
		return commitRecord{txnum: int(txnum)}, nil
	case OpRollback:
		txnum, err := p.GetInt(4)
		if err != nil {
			return nil, err
		}
		return rollbackRecord{txnum: int(txnum)}, nil
	case OpSetInt:
		return parseSetInt(p)
	case OpSetString:
		return parseSetString(p)
	default:
		return nil, jujuerrors.Annotatef(ErrUnknownRecordType, "tag=%d", tagVal)
	}
}

func parseSetInt(p *file.Page) (Record, error) {
	txnum, err := p.GetInt(4)
	if err != nil {
		return nil, err
	}
	filename, err := p.GetString(tpos)
	if err != nil {
		return nil, err
	}
	bpos := tpos + file.MaxLength(len(filename))
	blockNo, err := p.GetInt(bpos)
	if err != nil {
		return nil, err
	}
	opos := bpos + 4
	offset, err := p.GetInt(opos)
	if err != nil {
		return nil, err
	}
	vpos := opos + 4
	oldVal, err := p.GetInt(vpos)
	if err != nil {
		return nil, err
	}
	return setIntRecord{
		txnum:    int(txnum),
		block:    file.NewBlockID(filename, int(blockNo)),
		offset:   int(offset),
		oldValue: oldVal,
	}, nil
}

func parseSetString(p *file.Page) (Record, error) {
	txnum, err := p.GetInt(4)
	if err != nil {
		return nil, err
	}
	filename, err := p.GetString(tpos)
	if err != nil {
		return nil, err
	}
	bpos := tpos + file.MaxLength(len(filename))
	blockNo, err := p.GetInt(bpos)
	if err != nil {
		return nil, err
	}
	opos := bpos + 4
	offset, err := p.GetInt(opos)
	if err != nil {
		return nil, err
	}
	vpos := opos + 4
	oldVal, err := p.GetString(vpos)
	if err != nil {
		return nil, err
	}
	return setStringRecord{
		txnum:    int(txnum),
		block:    file.NewBlockID(filename, int(blockNo)),
		offset:   int(offset),
		oldValue: oldVal,
	}, nil
}
