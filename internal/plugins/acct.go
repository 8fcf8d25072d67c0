package plugins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"

	"github.com/mohit83k/radiusd/internal/model"
	"github.com/mohit83k/radiusd/internal/pipeline"
	"github.com/mohit83k/radiusd/internal/redisclient"
)

// ErrMissingSession is returned for session records without Acct-Session-Id.
var ErrMissingSession = errors.New("missing Acct-Session-Id")

// AcctSession validates the accounting record before it is acknowledged:
// the status type must be known and session records must carry an id.
func AcctSession() pipeline.Plugin {
	return pipeline.Func("acct_session", func(_ context.Context, pc *pipeline.Context) error {
		status, err := rfc2866.AcctStatusType_Lookup(pc.Request.Packet)
		if err != nil {
			return fmt.Errorf("read Acct-Status-Type: %w", err)
		}
		switch status {
		case rfc2866.AcctStatusType_Value_AccountingOn, rfc2866.AcctStatusType_Value_AccountingOff:
			return nil
		case rfc2866.AcctStatusType_Value_Start, rfc2866.AcctStatusType_Value_Stop, rfc2866.AcctStatusType_Value_InterimUpdate:
			if rfc2866.AcctSessionID_GetString(pc.Request.Packet) == "" {
				return ErrMissingSession
			}
			return nil
		default:
			return fmt.Errorf("unsupported Acct-Status-Type %d", status)
		}
	})
}

// AcctStat bumps the per status type counters.
func AcctStat() pipeline.Plugin {
	return pipeline.Func("acct_stat", func(_ context.Context, pc *pipeline.Context) error {
		if pc.Stats == nil {
			return nil
		}
		switch rfc2866.AcctStatusType_Get(pc.Request.Packet) {
		case rfc2866.AcctStatusType_Value_Start:
			pc.Stats.AcctStart.Add(1)
		case rfc2866.AcctStatusType_Value_Stop:
			pc.Stats.AcctStop.Add(1)
		case rfc2866.AcctStatusType_Value_InterimUpdate:
			pc.Stats.AcctUpdate.Add(1)
		case rfc2866.AcctStatusType_Value_AccountingOn:
			pc.Stats.AcctOn.Add(1)
		case rfc2866.AcctStatusType_Value_AccountingOff:
			pc.Stats.AcctOff.Add(1)
		}
		return nil
	})
}

// AcctStore persists the accounting record.
func AcctStore(store redisclient.Store, now func() time.Time) pipeline.Plugin {
	return pipeline.Func("acct_store", func(ctx context.Context, pc *pipeline.Context) error {
		return store.Save(ctx, accountingRecord(pc, now().UTC()))
	})
}

func accountingRecord(pc *pipeline.Context, ts time.Time) model.AccountingRecord {
	pkt := pc.Request.Packet
	rec := model.AccountingRecord{
		Username:         rfc2865.UserName_GetString(pkt),
		NASPort:          int(rfc2865.NASPort_Get(pkt)),
		AcctStatusType:   rfc2866.AcctStatusType_Get(pkt).String(),
		AcctSessionID:    rfc2866.AcctSessionID_GetString(pkt),
		CallingStationID: rfc2865.CallingStationID_GetString(pkt),
		CalledStationID:  rfc2865.CalledStationID_GetString(pkt),
		Timestamp:        ts,
		PacketType:       pkt.Code.String(),
	}
	if ip := rfc2865.NASIPAddress_Get(pkt); ip != nil {
		rec.NASIPAddress = ip.String()
	}
	if ip := rfc2865.FramedIPAddress_Get(pkt); ip != nil {
		rec.FramedIPAddress = ip.String()
	}
	if pc.Request.Source != nil {
		rec.ClientIP = pc.Request.Source.IP.String()
	}
	if pc.User != nil {
		rec.AccountNumber = pc.User.AccountNumber
	}
	return rec
}
